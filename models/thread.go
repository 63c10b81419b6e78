package models

import "time"

// Thread 主题帖
type Thread struct {
	ID         int64     `gorm:"column:id;primary_key" json:"id"`
	CategoryID int64     `gorm:"column:category_id;not null;index" json:"category_id"`
	AuthorID   int64     `gorm:"column:author_id;not null;index" json:"author_id"`
	Title      string    `gorm:"column:title;size:255;not null" json:"title"`
	IsPinned   bool      `gorm:"column:is_pinned;not null;default:0" json:"is_pinned"`
	IsLocked   bool      `gorm:"column:is_locked;not null;default:0" json:"is_locked"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Thread) TableName() string { return "threads" }
