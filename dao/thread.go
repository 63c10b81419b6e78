package dao

import (
	"Voz/models"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

type ThreadDAO struct {
	Repo[models.Thread]
}

func NewThreadDAO(db *gorm.DB) *ThreadDAO {
	return &ThreadDAO{Repo: NewRepo[models.Thread](db)}
}

// GetByID 查询主题,不存在返回 nil
func (d *ThreadDAO) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	return d.FindById(ctx, id)
}
