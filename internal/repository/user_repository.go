package repository

import (
	"context"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
)

// UserRepository 已注册用户集合（po_registered_users）
type UserRepository struct {
	users *collection[[]model.RegisteredUser]
}

func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{
		users: newCollection(store, KeyRegisteredUsers, func() []model.RegisteredUser {
			return []model.RegisteredUser{}
		}),
	}
}

func (r *UserRepository) List(ctx context.Context) ([]model.RegisteredUser, error) {
	return r.users.load(ctx)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.RegisteredUser, error) {
	users, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, util.ErrEmailNotFound
}

// Create 追加新用户，邮箱已存在时返回 ErrDuplicateEmail 且不修改原记录
func (r *UserRepository) Create(ctx context.Context, user *model.RegisteredUser) error {
	_, err := r.users.update(ctx, func(users []model.RegisteredUser) ([]model.RegisteredUser, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, util.ErrDuplicateEmail
			}
		}
		return append(users, *user), nil
	})
	return err
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	users, err := r.users.load(ctx)
	return len(users), err
}
