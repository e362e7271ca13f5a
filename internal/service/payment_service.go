package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/repository"
)

var (
	ErrOrderNotFound    = errors.New("订单不存在")
	ErrPlanMismatch     = errors.New("套餐与订单不一致")
	ErrInvalidSignature = errors.New("支付签名校验失败")
	ErrCheckoutFailed   = errors.New("创建支付订单失败")
)

// PaymentGateway 支付网关
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// VerifiedPayment 已通过网关签名校验、尚未兑换的支付。只能由 PaymentService.VerifyPayment 构造。
type VerifiedPayment struct {
	userID    int64
	orderRef  string
	paymentID string
	plan      model.Plan
}

func (v VerifiedPayment) OrderRef() string { return v.orderRef }

type PaymentService struct {
	orderRepo *repository.PaymentOrderRepository
	gateway   PaymentGateway
	cfg       *config.Config
}

func NewPaymentService(orderRepo *repository.PaymentOrderRepository, gateway PaymentGateway, cfg *config.Config) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		cfg:       cfg,
	}
}

// Plans 套餐目录，按价格升序
func (s *PaymentService) Plans() []*dto.PlanInfo {
	plans := make([]*dto.PlanInfo, 0, len(s.cfg.Membership.Plans))
	for name, p := range s.cfg.Membership.Plans {
		if p.QuotaGrant <= 0 {
			continue
		}
		plans = append(plans, &dto.PlanInfo{
			Plan:        strings.ToUpper(name),
			DisplayName: p.DisplayName,
			QuotaGrant:  p.QuotaGrant,
			Price:       p.Price,
			Currency:    s.cfg.Payment.Currency,
		})
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Price < plans[j].Price
	})
	return plans
}

// Checkout 在网关创建订单并记录
func (s *PaymentService) Checkout(ctx context.Context, p Principal, planName string) (*dto.CheckoutResponse, error) {
	if !p.Verified {
		return nil, ErrAccountNotVerified
	}
	plan := model.Plan(strings.ToUpper(planName))
	price, ok := s.cfg.Membership.Plan(string(plan))
	if !ok || !plan.Paid() {
		return nil, ErrInvalidPlan
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	orderRef, err := s.gateway.CreateOrder(ctx, price.Price, s.cfg.Payment.Currency, receipt)
	if err != nil {
		log.Printf("Checkout failed: user=%d plan=%s: %v", p.UserID, plan, err)
		return nil, ErrCheckoutFailed
	}

	order := &model.PaymentOrder{
		OrderRef: orderRef,
		Receipt:  receipt,
		UserID:   p.UserID,
		Plan:     plan,
		Amount:   price.Price,
		Currency: s.cfg.Payment.Currency,
		Status:   model.OrderStatusCreated,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderID:  orderRef,
		Plan:     string(plan),
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment 校验订单归属、状态、套餐以及网关签名
func (s *PaymentService) VerifyPayment(ctx context.Context, p Principal, req *dto.UpgradeRequest) (VerifiedPayment, error) {
	order, err := s.orderRepo.GetByOrderRef(req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VerifiedPayment{}, ErrOrderNotFound
		}
		return VerifiedPayment{}, err
	}
	if order.UserID != p.UserID {
		return VerifiedPayment{}, ErrOrderNotFound
	}
	if order.Status != model.OrderStatusCreated {
		return VerifiedPayment{}, ErrOrderConsumed
	}
	if string(order.Plan) != strings.ToUpper(req.Plan) {
		return VerifiedPayment{}, ErrPlanMismatch
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Printf("Payment signature rejected: user=%d order=%s payment=%s", p.UserID, req.OrderID, req.PaymentID)
		return VerifiedPayment{}, ErrInvalidSignature
	}

	return VerifiedPayment{
		userID:    p.UserID,
		orderRef:  order.OrderRef,
		paymentID: req.PaymentID,
		plan:      order.Plan,
	}, nil
}

func (s *PaymentService) orderTTL() time.Duration {
	hours := s.cfg.Payment.OrderTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// CountStaleOrders 统计超时未支付的订单
func (s *PaymentService) CountStaleOrders(ctx context.Context) (int64, error) {
	return s.orderRepo.CountStale(time.Now().Add(-s.orderTTL()))
}

// ExpireStaleOrders 将超时未支付的订单标记为 expired
func (s *PaymentService) ExpireStaleOrders(ctx context.Context) (int64, error) {
	return s.orderRepo.ExpireStale(time.Now().Add(-s.orderTTL()))
}

// ListOrders 用户的支付订单
func (s *PaymentService) ListOrders(userID int64) ([]*model.PaymentOrder, error) {
	return s.orderRepo.ListByUser(userID, 20)
}
