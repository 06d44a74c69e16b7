package service

import (
	"context"

	"github.com/shashwatpal1021/Master-O/internal/model"
)

type userDirectory interface {
	ListWithTasks(ctx context.Context) ([]model.UserWithTasks, error)
	FindWithTasks(ctx context.Context, id string) (model.UserWithTasks, error)
	DeleteCascade(ctx context.Context, id string) error
}

type UserService struct {
	users userDirectory
}

func NewUserService(users userDirectory) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]model.UserWithTasks, error) {
	return s.users.ListWithTasks(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (model.UserWithTasks, error) {
	return s.users.FindWithTasks(ctx, id)
}

// Delete removes a user and, first, every task they created or were assigned
// to. Admin accounts cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindWithTasks(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == model.RoleAdmin {
		return model.ErrAdminUndeletable
	}

	return s.users.DeleteCascade(ctx, id)
}
