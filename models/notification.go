package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification 站内通知
// 对应表 notifications
// 一行一个接收人，广播不落库
type Notification struct {
	ID          int64          `gorm:"column:id;primary_key" json:"id"`
	UserID      int64          `gorm:"column:user_id;not null;index:idx_user_read,priority:1" json:"user_id"`
	Kind        string         `gorm:"column:kind;size:32;not null" json:"kind"`
	Title       string         `gorm:"column:title;size:255;not null" json:"title"`
	Content     string         `gorm:"column:content;type:text" json:"content"`
	RelatedID   int64          `gorm:"column:related_id" json:"related_id"`
	RelatedKind string         `gorm:"column:related_kind;size:16" json:"related_kind"`
	IsRead      bool           `gorm:"column:is_read;not null;default:0;index:idx_user_read,priority:2" json:"is_read"`
	Ext         datatypes.JSON `gorm:"column:ext" json:"ext,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
