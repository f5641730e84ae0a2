package service

import (
	"context"
	"errors"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Guard decides whether a caller holds exactly the role an operation needs.
// There is no hierarchy between roles. It only reads.
type Guard interface {
	// Authorize reports whether callerID resolves to a user whose role is
	// required. Unknown callers and users without a role are not authorized.
	Authorize(ctx context.Context, callerID uint, required models.RoleName) (bool, error)
	// Require returns the caller when authorized, ErrUnauthorized when the
	// caller cannot be resolved and ErrForbidden when the role differs.
	Require(ctx context.Context, callerID uint, required models.RoleName) (*models.User, error)
}

type guard struct {
	users repository.UserRepository
}

func NewGuard(users repository.UserRepository) Guard {
	return &guard{users: users}
}

func (g *guard) Authorize(ctx context.Context, callerID uint, required models.RoleName) (bool, error) {
	_, err := g.Require(ctx, callerID, required)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return false, nil
	}
	return false, err
}

func (g *guard) Require(ctx context.Context, callerID uint, required models.RoleName) (*models.User, error) {
	if callerID == 0 {
		return nil, fmt.Errorf("%w: no caller identity", ErrUnauthorized)
	}

	user, err := g.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user %d", ErrUnauthorized, callerID)
		}
		return nil, fmt.Errorf("resolve caller %d: %w", callerID, err)
	}

	role := user.RoleName()
	if role == "" {
		return nil, fmt.Errorf("%w: user %d has no role", ErrForbidden, callerID)
	}
	if role != required {
		return nil, fmt.Errorf("%w: requires %s", ErrForbidden, required)
	}
	return user, nil
}
