package model

import (
	"time"
)

const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusExpired = "expired"
)

// PaymentOrder 支付网关下单记录，一个订单只能兑换一次升级
type PaymentOrder struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	OrderRef  string     `gorm:"size:100;uniqueIndex;not null" json:"order_ref"`
	Receipt   string     `gorm:"size:64;not null" json:"receipt"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Plan      Plan       `gorm:"size:20;not null" json:"plan"`
	Amount    int64      `gorm:"not null" json:"amount"`
	Currency  string     `gorm:"size:10;not null" json:"currency"`
	Status    string     `gorm:"size:20;default:created;index" json:"status"`
	PaymentID string     `gorm:"size:100" json:"payment_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
