package model

import (
	"time"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	BlogID    int64     `gorm:"not null;index" json:"blog_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
