package service

import (
	"Voz/dao"
	"Voz/models"
	"Voz/types"
	"context"
)

var (
	_ ITargetStore   = (*ForumStore)(nil)
	_ IAudienceStore = (*ForumStore)(nil)
)

// ForumStore 主题/回帖/用户的只读访问
// 投票的目标校验和通知的受众解析共用
type ForumStore struct {
	ThreadDAO *dao.ThreadDAO
	PostDAO   *dao.PostDAO
	UserDAO   *dao.Users
}

// ResolveTarget 解析投票目标,返回目标作者
func (s *ForumStore) ResolveTarget(ctx context.Context, targetID int64, kind types.VoteKind) (int64, bool, error) {
	switch kind {
	case types.VoteKindThread:
		thread, err := s.ThreadDAO.GetByID(ctx, targetID)
		if err != nil || thread == nil {
			return 0, false, err
		}
		return thread.AuthorID, true, nil
	case types.VoteKindPost:
		post, err := s.PostDAO.GetByID(ctx, targetID)
		if err != nil || post == nil {
			return 0, false, err
		}
		return post.AuthorID, true, nil
	}
	return 0, false, nil
}

func (s *ForumStore) ThreadAuthors(ctx context.Context, threadID, exclude int64) ([]int64, error) {
	return s.PostDAO.DistinctAuthorIDs(ctx, threadID, exclude)
}

func (s *ForumStore) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.PostDAO.GetByID(ctx, id)
}

func (s *ForumStore) ThreadByID(ctx context.Context, id int64) (*models.Thread, error) {
	return s.ThreadDAO.GetByID(ctx, id)
}

func (s *ForumStore) Username(ctx context.Context, id int64) (string, error) {
	return s.UserDAO.GetUsername(ctx, id)
}
