package model

import (
	"time"
)

// Plan 会员套餐等级
type Plan string

const (
	PlanBasic    Plan = "BASIC"
	PlanStandard Plan = "STANDARD"
	PlanPremium  Plan = "PREMIUM"
)

// Valid 判断是否为已知套餐
func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanStandard, PlanPremium:
		return true
	}
	return false
}

// Paid 只有付费套餐可以通过升级获得
func (p Plan) Paid() bool {
	return p == PlanStandard || p == PlanPremium
}

// Membership 每个用户至多一条，首次升级时创建
type Membership struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Plan        Plan      `gorm:"size:20;not null" json:"plan"`
	AIBlogsLeft int       `gorm:"column:ai_blogs_left;not null;default:0;check:ai_blogs_left >= 0" json:"ai_blogs_left"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}
