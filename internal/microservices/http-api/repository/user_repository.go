package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	RoleByName(ctx context.Context, name models.RoleName) (*models.Role, error)
	DeleteIfUnencumbered(ctx context.Context, id uint) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Role").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	// return nil on miss so callers never mistake a zero-value user for a hit
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Role").Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) RoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteIfUnencumbered removes a user together with their history, unless they
// still hold a loan that was not returned or a fine that is still pending.
// The checks and the deletes share one transaction. The user row is locked
// first, so a loan inserted concurrently either commits before the checks run
// or fails its foreign key once the user is gone.
func (r *userRepository) DeleteIfUnencumbered(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
			return err
		}

		var openLoans int64
		if err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND status IN ?", id, models.OpenLoanStatuses).
			Count(&openLoans).Error; err != nil {
			return fmt.Errorf("count open loans: %w", err)
		}
		if openLoans > 0 {
			return fmt.Errorf("%w: %d open", ErrUserHasOpenLoans, openLoans)
		}

		var pendingFines int64
		if err := tx.Model(&models.Fine{}).
			Joins("JOIN loans ON loans.id = fines.loan_id").
			Where("loans.user_id = ? AND fines.status = ?", id, models.FinePending).
			Count(&pendingFines).Error; err != nil {
			return fmt.Errorf("count pending fines: %w", err)
		}
		if pendingFines > 0 {
			return fmt.Errorf("%w: %d pending", ErrUserHasPendingFines, pendingFines)
		}

		loanIDs := tx.Model(&models.Loan{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("loan_id IN (?)", loanIDs).Delete(&models.Fine{}).Error; err != nil {
			return fmt.Errorf("delete fines: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return fmt.Errorf("delete loans: %w", err)
		}

		requestIDs := tx.Model(&models.Request{}).Select("id").Where("user_id = ?", id)
		if err := tx.Exec("DELETE FROM request_books WHERE request_id IN (?)", requestIDs).Error; err != nil {
			return fmt.Errorf("delete request books: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Request{}).Error; err != nil {
			return fmt.Errorf("delete requests: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("delete refresh tokens: %w", err)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
