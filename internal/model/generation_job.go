package model

import (
	"time"
)

// 生成请求的状态
const (
	JobStatusGenerating   = "generating"
	JobStatusIllustrating = "illustrating"
	JobStatusPersisting   = "persisting"
	JobStatusDone         = "done"
	JobStatusFailed       = "failed"
	JobStatusRejected     = "rejected"
)

// GenerationJob 记录每次 AI 生成请求的审计信息
type GenerationJob struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	Heading        string     `gorm:"size:300;not null" json:"heading"`
	Status         string     `gorm:"size:20;default:generating;index" json:"status"`
	BlogID         *int64     `json:"blog_id,omitempty"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds,omitempty"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
