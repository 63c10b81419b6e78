package dao

import (
	"Voz/models"
	"context"

	"gorm.io/gorm"
)

type NotificationDAO struct {
	Repo[models.Notification]
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{Repo: NewRepo[models.Notification](db)}
}

// ListByUser 按创建时间倒序分页查询,isRead 为 nil 时不过滤已读状态
func (d *NotificationDAO) ListByUser(ctx context.Context, userID int64, page, limit int, isRead *bool) ([]*models.Notification, int64, error) {
	query := d.Db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountUnread 统计未读通知数
func (d *NotificationDAO) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 标记单条已读
func (d *NotificationDAO) MarkRead(ctx context.Context, id int64) error {
	return d.Db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).Update("is_read", true).Error
}

// MarkAllRead 标记用户全部未读为已读,返回更新行数
func (d *NotificationDAO) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := d.Db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// DeleteByID 删除通知
func (d *NotificationDAO) DeleteByID(ctx context.Context, id int64) error {
	return d.Db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{}).Error
}
