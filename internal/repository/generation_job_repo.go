package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/internal/model"
)

type GenerationJobRepository struct {
	db *gorm.DB
}

func NewGenerationJobRepository(db *gorm.DB) *GenerationJobRepository {
	return &GenerationJobRepository{db: db}
}

func (r *GenerationJobRepository) Create(job *model.GenerationJob) error {
	return r.db.Create(job).Error
}

func (r *GenerationJobRepository) GetByID(id int64) (*model.GenerationJob, error) {
	var job model.GenerationJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *GenerationJobRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.GenerationJob{}).Where("id = ?", id).Update("status", status).Error
}

// Finish 记录终态
func (r *GenerationJobRepository) Finish(id int64, status string, blogID *int64, errMsg string, startedAt time.Time) error {
	now := time.Now()
	return r.db.Model(&model.GenerationJob{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          status,
		"blog_id":         blogID,
		"error_message":   errMsg,
		"completed_at":    now,
		"elapsed_seconds": int(now.Sub(startedAt).Seconds()),
	}).Error
}

// ListByUser 获取用户最近的生成记录
func (r *GenerationJobRepository) ListByUser(userID int64, limit int) ([]*model.GenerationJob, error) {
	var jobs []*model.GenerationJob
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
