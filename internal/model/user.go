package model

import (
	"crypto/subtle"
	"time"
)

// User 账号。密码登录和 GitHub 登录的账号共用一张表，PasswordHash / GithubID 可能为空。
type User struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash  *string    `gorm:"size:255" json:"-"`
	AvatarURL     string     `gorm:"size:500" json:"avatar_url"`
	Bio           string     `gorm:"size:500" json:"bio"`
	GithubID      *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	EmailVerified bool       `gorm:"default:false;index" json:"email_verified"`
	OTPCode       *string    `gorm:"column:otp_code;size:6" json:"-"`
	OTPExpiresAt  *time.Time `gorm:"column:otp_expires_at" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// EmailAddress 没有邮箱时返回空串
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// OTPMatches 验证码一致且未过期
func (u *User) OTPMatches(code string, now time.Time) bool {
	if u.OTPCode == nil || u.OTPExpiresAt == nil || now.After(*u.OTPExpiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.OTPCode), []byte(code)) == 1
}
