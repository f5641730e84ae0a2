package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type FineRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Fine, error)
	ListByStatus(ctx context.Context, status models.FineStatus) ([]models.Fine, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Fine, error)
	Resolve(ctx context.Context, id uint, status models.FineStatus, by uint, at time.Time) (*models.Fine, error)
}

type fineRepository struct {
	db *gorm.DB
}

func NewFineRepository(db *gorm.DB) FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) FindByID(ctx context.Context, id uint) (*models.Fine, error) {
	var fine models.Fine
	if err := r.db.WithContext(ctx).Preload("Loan").First(&fine, id).Error; err != nil {
		return nil, err
	}
	return &fine, nil
}

// ListByStatus loads fines with the loan, borrower and book so the librarian
// view can show who owes what.
func (r *fineRepository) ListByStatus(ctx context.Context, status models.FineStatus) ([]models.Fine, error) {
	var fines []models.Fine
	if err := r.db.WithContext(ctx).
		Preload("Loan.User").
		Preload("Loan.Book").
		Where("status = ?", status).
		Order("generated_at ASC, id ASC").
		Find(&fines).Error; err != nil {
		return nil, fmt.Errorf("list fines by status: %w", err)
	}
	return fines, nil
}

func (r *fineRepository) ListByUser(ctx context.Context, userID uint) ([]models.Fine, error) {
	var fines []models.Fine
	if err := r.db.WithContext(ctx).
		Preload("Loan.Book").
		Joins("JOIN loans ON loans.id = fines.loan_id").
		Where("loans.user_id = ?", userID).
		Order("fines.generated_at DESC, fines.id DESC").
		Find(&fines).Error; err != nil {
		return nil, fmt.Errorf("list fines by user: %w", err)
	}
	return fines, nil
}

// Resolve moves a Pending fine to Paid or Waived exactly once.
func (r *fineRepository) Resolve(ctx context.Context, id uint, status models.FineStatus, by uint, at time.Time) (*models.Fine, error) {
	var fine models.Fine

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fine, id).Error; err != nil {
			return err
		}
		if fine.Status != models.FinePending {
			return ErrFineNotPending
		}

		res := tx.Model(&models.Fine{}).
			Where("id = ? AND status = ?", id, models.FinePending).
			Updates(map[string]any{
				"status":      status,
				"resolved_at": at,
				"resolved_by": by,
			})
		if res.Error != nil {
			return fmt.Errorf("resolve fine %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrFineNotPending
		}

		fine.Status = status
		fine.ResolvedAt = &at
		fine.ResolvedBy = &by
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fine, nil
}
