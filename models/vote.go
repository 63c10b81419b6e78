package models

import "time"

// Vote 投票记录
// 对应表 votes
// 唯一键: user_id + target_id + target_kind
// value: 1=顶, -1=踩
type Vote struct {
	ID         int64     `gorm:"column:id;primary_key" json:"id"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:uk_user_target,priority:1" json:"user_id"`
	TargetID   int64     `gorm:"column:target_id;not null;uniqueIndex:uk_user_target,priority:2" json:"target_id"`
	TargetKind string    `gorm:"column:target_kind;size:16;not null;uniqueIndex:uk_user_target,priority:3" json:"target_kind"`
	Value      int8      `gorm:"column:value;not null" json:"value"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Vote) TableName() string { return "votes" }
