package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/blogmind_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle 在一个事务内完成：有赞则删，无赞则插（冲突忽略）
func (r *LikeRepository) Toggle(blogID, userID int64) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("blog_id = ? AND user_id = ?", blogID, userID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Like{BlogID: blogID, UserID: userID}).Error
	})
	return liked, err
}

func (r *LikeRepository) Exists(blogID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) CountByBlogID(blogID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// LikedBlogIDs 返回 blogIDs 中用户点过赞的集合
func (r *LikeRepository) LikedBlogIDs(userID int64, blogIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(blogIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND blog_id IN ?", userID, blogIDs).
		Pluck("blog_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
