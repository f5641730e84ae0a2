package service

import (
	"context"
	"fmt"
	"log/slog"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

type UserService interface {
	Delete(ctx context.Context, userID, adminID uint) error
	List(ctx context.Context, adminID uint) ([]models.User, error)
}

type userService struct {
	guard  Guard
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(guard Guard, users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{guard: guard, users: users, logger: logger}
}

// Delete removes a user who owes nothing: no loan still out and no pending fine.
func (s *userService) Delete(ctx context.Context, userID, adminID uint) error {
	if _, err := s.guard.Require(ctx, adminID, models.RoleAdministrator); err != nil {
		return err
	}

	if err := s.users.DeleteIfUnencumbered(ctx, userID); err != nil {
		return classify(err, fmt.Sprintf("user %d", userID))
	}

	s.logger.Info("user deleted", "user_id", userID, "admin_id", adminID)
	return nil
}

func (s *userService) List(ctx context.Context, adminID uint) ([]models.User, error) {
	if _, err := s.guard.Require(ctx, adminID, models.RoleAdministrator); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, classify(err, "users")
	}
	return users, nil
}
