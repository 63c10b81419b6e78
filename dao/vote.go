package dao

import (
	"Voz/models"
	"context"
	"errors"

	"gorm.io/gorm"
)

type VoteDAO struct {
	Repo[models.Vote]
}

func NewVoteDAO(db *gorm.DB) *VoteDAO {
	return &VoteDAO{Repo: NewRepo[models.Vote](db)}
}

// GetByUserTarget 查询用户对目标的投票记录,不存在返回 nil
func (d *VoteDAO) GetByUserTarget(ctx context.Context, userID, targetID int64, kind string) (*models.Vote, error) {
	var item models.Vote
	err := d.Db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, kind).
		Limit(1).Find(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

// DeleteByID 按主键删除,返回实际删除行数(并发下可能为 0)
func (d *VoteDAO) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res := d.Db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vote{})
	return res.RowsAffected, res.Error
}

// UpdateValue 翻转投票值,返回实际更新行数
func (d *VoteDAO) UpdateValue(ctx context.Context, id int64, value int8) (int64, error) {
	res := d.Db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", id).Update("value", value)
	return res.RowsAffected, res.Error
}

// DeleteByUserTarget 删除用户对目标的投票,返回实际删除行数
func (d *VoteDAO) DeleteByUserTarget(ctx context.Context, userID, targetID int64, kind string) (int64, error) {
	res := d.Db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, kind).
		Delete(&models.Vote{})
	return res.RowsAffected, res.Error
}

// CountByValue 统计目标上指定值的票数
func (d *VoteDAO) CountByValue(ctx context.Context, targetID int64, kind string, value int8) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).Model(&models.Vote{}).
		Where("target_id = ? AND target_kind = ? AND value = ?", targetID, kind, value).
		Count(&count).Error
	return count, err
}
