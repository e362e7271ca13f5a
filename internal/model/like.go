package model

import (
	"time"
)

// Like (blog_id, user_id) 复合主键保证每人每篇至多一个赞
type Like struct {
	BlogID    int64     `gorm:"primaryKey;autoIncrement:false" json:"blog_id"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
