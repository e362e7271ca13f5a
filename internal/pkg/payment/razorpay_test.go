package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qs3c/blogmind_server/config"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestGateway() *RazorpayGateway {
	return NewRazorpayGateway(&config.PaymentConfig{KeyID: "rzp_test_key", KeySecret: "rzp_secret", Currency: "INR"})
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	g := newTestGateway()
	sig := sign("rzp_secret", "order_123", "pay_456")

	assert.True(t, g.VerifySignature("order_123", "pay_456", sig))
	assert.False(t, g.VerifySignature("order_123", "pay_999", sig))
	assert.False(t, g.VerifySignature("order_123", "pay_456", sign("other", "order_123", "pay_456")))
	assert.False(t, g.VerifySignature("order_123", "pay_456", ""))
}

func TestRazorpayGateway_KeyID(t *testing.T) {
	assert.Equal(t, "rzp_test_key", newTestGateway().KeyID())
}

func TestRazorpayGateway_CreateOrder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGateway().CreateOrder(ctx, 49900, "INR", "rcpt")
	assert.ErrorIs(t, err, context.Canceled)
}
