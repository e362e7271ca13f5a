package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户（默认已验证邮箱）
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", n, time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d", n),
		Email:         &email,
		PasswordHash:  &passwordHash,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// WithUnverified 未验证邮箱的用户
func WithUnverified() func(*model.User) {
	return func(u *model.User) {
		u.EmailVerified = false
	}
}

// WithOTP 设置邮箱验证码
func WithOTP(code string, expiresAt time.Time) func(*model.User) {
	return func(u *model.User) {
		u.OTPCode = &code
		u.OTPExpiresAt = &expiresAt
	}
}

// TestMembership 直接写入会员记录
func TestMembership(t *testing.T, db *gorm.DB, userID int64, plan model.Plan, left int) *model.Membership {
	t.Helper()

	m := &model.Membership{
		UserID:      userID,
		Plan:        plan,
		AIBlogsLeft: left,
	}
	// AIBlogsLeft 为 0 时不能被 gorm 默认值吞掉
	if err := db.Select("*").Create(m).Error; err != nil {
		t.Fatalf("Failed to create test membership: %v", err)
	}

	return m
}

// TestBlog 创建测试博客
func TestBlog(t *testing.T, db *gorm.DB, authorID int64, opts ...func(*model.Blog)) *model.Blog {
	t.Helper()

	blog := &model.Blog{
		AuthorID:    authorID,
		Heading:     fmt.Sprintf("Test Blog %d", nextSeq()),
		Description: "test description",
		ImageURL:    "https://images.example.com/cover.jpg",
	}

	for _, opt := range opts {
		opt(blog)
	}

	if err := db.Create(blog).Error; err != nil {
		t.Fatalf("Failed to create test blog: %v", err)
	}

	return blog
}

// WithHeading 设置博客标题
func WithHeading(heading string) func(*model.Blog) {
	return func(b *model.Blog) {
		b.Heading = heading
	}
}

// WithAIGenerated 标记为 AI 生成
func WithAIGenerated() func(*model.Blog) {
	return func(b *model.Blog) {
		b.IsAIGenerated = true
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(at time.Time) func(*model.Blog) {
	return func(b *model.Blog) {
		b.CreatedAt = at
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, blogID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:  userID,
		BlogID:  blogID,
		Comment: content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestLike 创建测试点赞
func TestLike(t *testing.T, db *gorm.DB, userID, blogID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		UserID: userID,
		BlogID: blogID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}

// TestPaymentOrder 创建测试支付订单
func TestPaymentOrder(t *testing.T, db *gorm.DB, userID int64, orderRef string, plan model.Plan, opts ...func(*model.PaymentOrder)) *model.PaymentOrder {
	t.Helper()

	order := &model.PaymentOrder{
		OrderRef: orderRef,
		Receipt:  fmt.Sprintf("rcpt_%d", nextSeq()),
		UserID:   userID,
		Plan:     plan,
		Amount:   49900,
		Currency: "INR",
		Status:   model.OrderStatusCreated,
	}

	for _, opt := range opts {
		opt(order)
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test payment order: %v", err)
	}

	return order
}

// WithOrderStatus 设置订单状态
func WithOrderStatus(status string) func(*model.PaymentOrder) {
	return func(o *model.PaymentOrder) {
		o.Status = status
	}
}

// WithOrderCreatedAt 设置订单创建时间
func WithOrderCreatedAt(at time.Time) func(*model.PaymentOrder) {
	return func(o *model.PaymentOrder) {
		o.CreatedAt = at
	}
}
