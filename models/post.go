package models

import "time"

// Post 主题下的回帖
type Post struct {
	ID        int64     `gorm:"column:id;primary_key" json:"id"`
	ThreadID  int64     `gorm:"column:thread_id;not null;index" json:"thread_id"`
	AuthorID  int64     `gorm:"column:author_id;not null;index" json:"author_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
