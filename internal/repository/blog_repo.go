package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// WithContext 返回绑定 context 的副本
func (r *BlogRepository) WithContext(ctx context.Context) *BlogRepository {
	return &BlogRepository{db: r.db.WithContext(ctx)}
}

func (r *BlogRepository) Create(blog *model.Blog) error {
	return r.db.Create(blog).Error
}

func (r *BlogRepository) GetByID(id int64) (*model.Blog, error) {
	var blog model.Blog
	err := r.db.Where("id = ?", id).First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) GetByIDWithAuthor(id int64) (*model.Blog, error) {
	var blog model.Blog
	err := r.db.Preload("Author").Where("id = ?", id).First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Blog{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除博客及其点赞、评论
func (r *BlogRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Blog{}, id).Error
	})
}

// List 按时间倒序分页，authorID 为 0 表示不过滤
func (r *BlogRepository) List(page, pageSize int, authorID int64) ([]*model.Blog, int64, error) {
	var blogs []*model.Blog
	var total int64

	query := r.db.Model(&model.Blog{})
	if authorID > 0 {
		query = query.Where("author_id = ?", authorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").Scopes(paginate(page, pageSize)).Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (r *BlogRepository) CountByAuthor(authorID int64, aiOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&model.Blog{}).Where("author_id = ?", authorID)
	if aiOnly {
		query = query.Where("is_ai_generated = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

type blogCount struct {
	BlogID int64
	Cnt    int64
}

// Stats 聚合点赞数和评论数
func (r *BlogRepository) Stats(ids []int64) (map[int64]*model.BlogStats, error) {
	stats := make(map[int64]*model.BlogStats, len(ids))
	for _, id := range ids {
		stats[id] = &model.BlogStats{BlogID: id}
	}
	if len(ids) == 0 {
		return stats, nil
	}

	var likeRows []blogCount
	err := r.db.Model(&model.Like{}).
		Select("blog_id, COUNT(*) AS cnt").
		Where("blog_id IN ?", ids).
		Group("blog_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range likeRows {
		stats[row.BlogID].LikeCount = row.Cnt
	}

	var commentRows []blogCount
	err = r.db.Model(&model.Comment{}).
		Select("blog_id, COUNT(*) AS cnt").
		Where("blog_id IN ?", ids).
		Group("blog_id").
		Scan(&commentRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range commentRows {
		stats[row.BlogID].CommentCount = row.Cnt
	}

	return stats, nil
}
