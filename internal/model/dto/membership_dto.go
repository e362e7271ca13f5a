package dto

// GenerateBlogRequest AI 生成博客请求
type GenerateBlogRequest struct {
	Heading string `json:"heading" binding:"required,min=1,max=300"`
}

// CheckoutRequest 创建支付订单
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=STANDARD PREMIUM"`
}

// CheckoutResponse 前端拉起支付所需信息
type CheckoutResponse struct {
	OrderID  string `json:"order_id"`
	Plan     string `json:"plan"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// UpgradeRequest 支付完成后的升级请求，签名由支付网关回传
type UpgradeRequest struct {
	Plan      string `json:"plan" binding:"required,oneof=STANDARD PREMIUM"`
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// MembershipInfo 会员信息，HasPlan=false 表示没有会员记录（隐式 BASIC）
type MembershipInfo struct {
	HasPlan     bool   `json:"has_plan"`
	Plan        string `json:"plan"`
	AIBlogsLeft int    `json:"ai_blogs_left"`
}

// PlanInfo 套餐目录项
type PlanInfo struct {
	Plan        string `json:"plan"`
	DisplayName string `json:"display_name"`
	QuotaGrant  int    `json:"quota_grant"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}
