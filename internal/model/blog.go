package model

import (
	"time"
)

type Blog struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	AuthorID      int64     `gorm:"not null;index" json:"author_id"`
	Heading       string    `gorm:"size:300;not null" json:"heading"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ImageURL      string    `gorm:"size:1000" json:"image_url"`
	IsAIGenerated bool      `gorm:"column:is_ai_generated;default:false;index" json:"is_ai_generated"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Blog) TableName() string {
	return "blogs"
}

// BlogStats 聚合统计，不落库
type BlogStats struct {
	BlogID       int64
	LikeCount    int64
	CommentCount int64
}
