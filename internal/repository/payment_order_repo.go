package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

type PaymentOrderRepository struct {
	db *gorm.DB
}

func NewPaymentOrderRepository(db *gorm.DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *PaymentOrderRepository) WithTx(tx *gorm.DB) *PaymentOrderRepository {
	return &PaymentOrderRepository{db: tx}
}

func (r *PaymentOrderRepository) Create(order *model.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *PaymentOrderRepository) GetByOrderRef(orderRef string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.Where("order_ref = ?", orderRef).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid 只有本人的 created 订单能被标记为已支付，返回是否命中
func (r *PaymentOrderRepository) MarkPaid(orderRef string, userID int64, paymentID string) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.PaymentOrder{}).
		Where("order_ref = ? AND user_id = ? AND status = ?", orderRef, userID, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusPaid,
			"payment_id": paymentID,
			"paid_at":    now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountStale 统计创建时间早于 before 且仍未支付的订单
func (r *PaymentOrderRepository) CountStale(before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.OrderStatusCreated, before).
		Count(&count).Error
	return count, err
}

// ExpireStale 把过期未支付的订单标记为 expired
func (r *PaymentOrderRepository) ExpireStale(before time.Time) (int64, error) {
	result := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.OrderStatusCreated, before).
		Update("status", model.OrderStatusExpired)
	return result.RowsAffected, result.Error
}

func (r *PaymentOrderRepository) ListByUser(userID int64, limit int) ([]*model.PaymentOrder, error) {
	var orders []*model.PaymentOrder
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
