package service

import "errors"

var (
	ErrInvalidVoteValue     = errors.New("投票值必须为 1 或 -1")
	ErrInvalidVoteKind      = errors.New("投票目标类型不合法")
	ErrTargetNotFound       = errors.New("投票目标不存在")
	ErrVoteNotFound         = errors.New("投票记录不存在")
	ErrVoteConflict         = errors.New("投票冲突,请稍后重试")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrForbidden            = errors.New("无权操作该资源")
)
