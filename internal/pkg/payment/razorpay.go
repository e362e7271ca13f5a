package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/qs3c/blogmind_server/config"
)

// RazorpayGateway Razorpay 下单与支付签名校验
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewRazorpayGateway(cfg *config.PaymentConfig) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:  cfg.KeyID,
		secret: cfg.KeySecret,
	}
}

// KeyID 前端拉起收银台需要的公钥
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder 创建网关订单，amount 为最小货币单位
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return "", fmt.Errorf("razorpay create order: missing order id in response")
	}
	return id, nil
}

// VerifySignature 校验 checkout 回调签名 HMAC_SHA256(order_id|payment_id)
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, g.secret)
}
