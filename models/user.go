package models

import "time"

// Users 用户
type Users struct {
	ID        int64     `gorm:"column:id;primary_key" json:"id"`
	Username  string    `gorm:"column:username;size:64;not null;uniqueIndex" json:"username"`
	Avatar    string    `gorm:"column:avatar;size:255" json:"avatar"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Users) TableName() string { return "users" }
