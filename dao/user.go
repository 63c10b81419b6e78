package dao

import (
	"Voz/models"
	"context"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// GetUsername 查询用户名,未知用户返回空串
func (u *Users) GetUsername(ctx context.Context, id int64) (string, error) {
	user, err := u.FindById(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Username, nil
}
