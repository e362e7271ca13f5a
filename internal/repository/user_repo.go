package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	return r.first("id = ?", id)
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	return r.first("email = ?", email)
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	return r.first("github_id = ?", githubID)
}

func (r *UserRepository) first(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// SetOTP 写入新的邮箱验证码，旧码失效
func (r *UserRepository) SetOTP(id int64, code string, expiresAt time.Time) error {
	return r.UpdateFields(id, map[string]interface{}{
		"otp_code":       code,
		"otp_expires_at": expiresAt,
	})
}

// MarkVerified 标记邮箱已验证并清除验证码
func (r *UserRepository) MarkVerified(id int64) error {
	return r.UpdateFields(id, map[string]interface{}{
		"email_verified": true,
		"otp_code":       nil,
		"otp_expires_at": nil,
	})
}

// LinkGithub 绑定 GitHub 账号；GitHub 已验证过邮箱
func (r *UserRepository) LinkGithub(id int64, githubID string) error {
	return r.UpdateFields(id, map[string]interface{}{
		"github_id":      githubID,
		"email_verified": true,
	})
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	return r.exists("email = ?", email)
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	return r.exists("username = ?", username)
}

func (r *UserRepository) exists(query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}
