package types

// VoteKind 投票目标类型
type VoteKind string

const (
	VoteKindThread VoteKind = "thread"
	VoteKindPost   VoteKind = "post"
)

func (k VoteKind) Valid() bool {
	return k == VoteKindThread || k == VoteKindPost
}

// 投票请求
type CastVoteRequest struct {
	TargetID int64  `json:"target_id,string" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Value    int8   `json:"value" binding:"required"`
}

// 投票结果: voted=false 表示本次操作取消了投票
type CastVoteResponse struct {
	Voted bool `json:"voted"`
	Value int8 `json:"value,omitempty"`
}

// 目标的投票统计(按需统计,不做增量维护)
type VoteStatsResponse struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
	Total     int64 `json:"total"`
}

// 当前用户对目标的投票状态
type UserVoteResponse struct {
	Voted bool `json:"voted"`
	Value int8 `json:"value,omitempty"`
}
