package dao

import (
	"Voz/models"
	"context"

	"gorm.io/gorm"
)

type PostDAO struct {
	Repo[models.Post]
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{Repo: NewRepo[models.Post](db)}
}

// GetByID 查询回帖,不存在返回 nil
func (d *PostDAO) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return d.FindById(ctx, id)
}

// DistinctAuthorIDs 查询主题下发过帖的用户(去重),排除 exclude
func (d *PostDAO) DistinctAuthorIDs(ctx context.Context, threadID, exclude int64) ([]int64, error) {
	var ids []int64
	err := d.Db.WithContext(ctx).Model(&models.Post{}).
		Where("thread_id = ? AND author_id <> ?", threadID, exclude).
		Distinct("author_id").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
