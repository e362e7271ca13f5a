package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithUser 带上评论者信息
func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateOwned 只改 userID 本人的评论，返回是否命中
func (r *CommentRepository) UpdateOwned(id, userID int64, content string) (bool, error) {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("comment", content)
	return result.RowsAffected == 1, result.Error
}

// DeleteOwned 只删 userID 本人的评论，返回是否命中
func (r *CommentRepository) DeleteOwned(id, userID int64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Comment{})
	return result.RowsAffected == 1, result.Error
}

// ListByBlogID 博客下的评论，最新在前
func (r *CommentRepository) ListByBlogID(blogID int64, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("blog_id = ?", blogID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Scopes(paginate(page, pageSize)).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
