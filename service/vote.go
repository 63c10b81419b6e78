package service

import (
	"Voz/models"
	"Voz/pkg/log"
	"Voz/pkg/snowflake"
	"Voz/types"
	"context"
	"errors"
	"strings"

	mysqlerr "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// 唯一键冲突后的重读收敛次数上限
const castVoteMaxAttempts = 3

var _ IVoteService = (*VoteService)(nil)

type IVoteService interface {
	CastVote(ctx context.Context, userID, targetID int64, kind types.VoteKind, value int8) (*types.CastVoteResponse, error)
	RemoveVote(ctx context.Context, userID, targetID int64, kind types.VoteKind) error
	GetVoteStats(ctx context.Context, targetID int64, kind types.VoteKind) (*types.VoteStatsResponse, error)
	GetUserVote(ctx context.Context, userID, targetID int64, kind types.VoteKind) (*types.UserVoteResponse, error)
}

// IVoteStore 投票表访问能力(dao.VoteDAO 实现)
type IVoteStore interface {
	GetByUserTarget(ctx context.Context, userID, targetID int64, kind string) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	DeleteByID(ctx context.Context, id int64) (int64, error)
	UpdateValue(ctx context.Context, id int64, value int8) (int64, error)
	DeleteByUserTarget(ctx context.Context, userID, targetID int64, kind string) (int64, error)
	CountByValue(ctx context.Context, targetID int64, kind string, value int8) (int64, error)
}

// ITargetStore 投票目标解析能力(ForumStore 实现)
type ITargetStore interface {
	ResolveTarget(ctx context.Context, targetID int64, kind types.VoteKind) (authorID int64, ok bool, err error)
}

type VoteService struct {
	VoteDAO  IVoteStore
	Targets  ITargetStore
	Notifier INotificationService
}

// CastVote 投票状态机:无票则建,同值则删(取消),异值则翻转
// 唯一键 (user_id, target_id, target_kind) 保证一票一行;
// 并发同键写入踩到 1062 时重读后重新收敛,不把冲突抛给调用方
func (s *VoteService) CastVote(ctx context.Context, userID, targetID int64, kind types.VoteKind, value int8) (*types.CastVoteResponse, error) {
	if value != 1 && value != -1 {
		return nil, ErrInvalidVoteValue
	}
	if !kind.Valid() {
		return nil, ErrInvalidVoteKind
	}

	authorID, ok, err := s.Targets.ResolveTarget(ctx, targetID, kind)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTargetNotFound
	}

	for attempt := 0; attempt < castVoteMaxAttempts; attempt++ {
		existing, err := s.VoteDAO.GetByUserTarget(ctx, userID, targetID, string(kind))
		if err != nil {
			return nil, err
		}

		if existing == nil {
			vote := &models.Vote{
				ID:         snowflake.GenID(),
				UserID:     userID,
				TargetID:   targetID,
				TargetKind: string(kind),
				Value:      value,
			}
			err := s.VoteDAO.Create(ctx, vote)
			if err == nil {
				if s.Notifier != nil && authorID != userID {
					s.Notifier.NotifyVoteReceived(ctx, userID, authorID, targetID, kind, value)
				}
				return &types.CastVoteResponse{Voted: true, Value: value}, nil
			}
			if isDupKeyErr(err) {
				// 同键并发插入,对方先完成,重读后继续
				log.L.Warn("cast vote dup key, retrying",
					zap.Int64("user_id", userID), zap.Int64("target_id", targetID))
				continue
			}
			return nil, err
		}

		if existing.Value == value {
			// 同值再投视为取消
			n, err := s.VoteDAO.DeleteByID(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				continue
			}
			return &types.CastVoteResponse{Voted: false}, nil
		}

		// 异值翻转
		n, err := s.VoteDAO.UpdateValue(ctx, existing.ID, value)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		return &types.CastVoteResponse{Voted: true, Value: value}, nil
	}

	return nil, ErrVoteConflict
}

// RemoveVote 无条件撤销投票
func (s *VoteService) RemoveVote(ctx context.Context, userID, targetID int64, kind types.VoteKind) error {
	if !kind.Valid() {
		return ErrInvalidVoteKind
	}

	n, err := s.VoteDAO.DeleteByUserTarget(ctx, userID, targetID, string(kind))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// GetVoteStats 按需统计 +1/-1 行数,不做增量计数
func (s *VoteService) GetVoteStats(ctx context.Context, targetID int64, kind types.VoteKind) (*types.VoteStatsResponse, error) {
	if !kind.Valid() {
		return nil, ErrInvalidVoteKind
	}

	up, err := s.VoteDAO.CountByValue(ctx, targetID, string(kind), 1)
	if err != nil {
		return nil, err
	}
	down, err := s.VoteDAO.CountByValue(ctx, targetID, string(kind), -1)
	if err != nil {
		return nil, err
	}

	return &types.VoteStatsResponse{
		Upvotes:   up,
		Downvotes: down,
		Score:     up - down,
		Total:     up + down,
	}, nil
}

// GetUserVote 查询当前用户对目标的投票状态
func (s *VoteService) GetUserVote(ctx context.Context, userID, targetID int64, kind types.VoteKind) (*types.UserVoteResponse, error) {
	if !kind.Valid() {
		return nil, ErrInvalidVoteKind
	}

	vote, err := s.VoteDAO.GetByUserTarget(ctx, userID, targetID, string(kind))
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return &types.UserVoteResponse{Voted: false}, nil
	}
	return &types.UserVoteResponse{Voted: true, Value: vote.Value}, nil
}

func isDupKeyErr(err error) bool {
	// MySQL duplicate key = 1062
	var me *mysqlerr.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	// 兜底(有些场景 gorm 包装后不方便 As)
	return strings.Contains(err.Error(), "Duplicate entry")
}
