package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/blogmind_server/internal/model"
)

// MembershipRepository 会员台账的持久化。所有写操作都是单条 SQL，不做读-改-写。
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: tx}
}

// WithContext 返回绑定 context 的副本，用于超时控制
func (r *MembershipRepository) WithContext(ctx context.Context) *MembershipRepository {
	return &MembershipRepository{db: r.db.WithContext(ctx)}
}

// GetByUserID 不存在时返回 gorm.ErrRecordNotFound
func (r *MembershipRepository) GetByUserID(userID int64) (*model.Membership, error) {
	var m model.Membership
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) Exists(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Membership{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Upsert 不存在则插入 (plan, delta)，存在则覆盖 plan 并原子累加 delta
func (r *MembershipRepository) Upsert(userID int64, plan model.Plan, delta int) error {
	m := &model.Membership{
		UserID:      userID,
		Plan:        plan,
		AIBlogsLeft: delta,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan":          plan,
			"ai_blogs_left": gorm.Expr("ai_blogs_left + ?", delta),
			"updated_at":    time.Now(),
		}),
	}).Create(m).Error
}

// Decrement 条件扣减：只有余额大于 0 时才减一，返回是否扣减成功
func (r *MembershipRepository) Decrement(userID int64) (bool, error) {
	result := r.db.Model(&model.Membership{}).
		Where("user_id = ? AND ai_blogs_left > 0", userID).
		Update("ai_blogs_left", gorm.Expr("ai_blogs_left - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Increment 原子增加余额，记录不存在时返回 false
func (r *MembershipRepository) Increment(userID int64, n int) (bool, error) {
	result := r.db.Model(&model.Membership{}).
		Where("user_id = ?", userID).
		Update("ai_blogs_left", gorm.Expr("ai_blogs_left + ?", n))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
