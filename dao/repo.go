package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo 通用 DAO 基类,各表 DAO 内嵌使用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

func (r Repo[T]) Create(ctx context.Context, item *T) error {
	return r.Db.WithContext(ctx).Create(item).Error
}

func (r Repo[T]) FindById(ctx context.Context, id int64) (*T, error) {
	var item T
	err := r.Db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	err := r.Db.WithContext(ctx).Where(where, args...).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	var model T
	err := r.Db.WithContext(ctx).Model(&model).Where(where, args...).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
