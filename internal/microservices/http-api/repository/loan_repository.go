package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type LoanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Loan, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.Loan, error)
	MarkOverdue(ctx context.Context, loanID uint, now time.Time, amount float64) (*models.Fine, error)
	Return(ctx context.Context, loanID uint, at time.Time, lateFine *models.Fine) (*models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).Preload("Book").First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Fines").
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans by user: %w", err)
	}
	return loans, nil
}

// ListDue returns Active loans whose due date is before now, oldest first.
func (r *loanRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Loan, error) {
	var loans []models.Loan
	q := r.db.WithContext(ctx).
		Where("status = ? AND due_at < ?", models.LoanActive, now).
		Order("due_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list due loans: %w", err)
	}
	return loans, nil
}

// MarkOverdue flips an Active, past-due loan to Overdue and records its fine in
// the same transaction. A loan that was already flipped (or returned) yields
// ErrLoanNotDue, so each loan is fined at most once per detection.
func (r *loanRepository) MarkOverdue(ctx context.Context, loanID uint, now time.Time, amount float64) (*models.Fine, error) {
	var fine *models.Fine

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Loan{}).
			Where("id = ? AND status = ? AND due_at < ?", loanID, models.LoanActive, now).
			Update("status", models.LoanOverdue)
		if res.Error != nil {
			return fmt.Errorf("mark loan %d overdue: %w", loanID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLoanNotDue
		}

		fine = &models.Fine{
			LoanID:      loanID,
			Amount:      amount,
			GeneratedAt: now,
			Status:      models.FinePending,
		}
		if err := tx.Create(fine).Error; err != nil {
			return fmt.Errorf("create fine for loan %d: %w", loanID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fine, nil
}

// Return closes an open loan and puts the copy back on the shelf. lateFine is
// only recorded when the loan was still Active at return time; an Overdue loan
// already carries the fine from its detection.
func (r *loanRepository) Return(ctx context.Context, loanID uint, at time.Time, lateFine *models.Fine) (*models.Loan, error) {
	var loan models.Loan

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, loanID).Error; err != nil {
			return err
		}
		if loan.Status == models.LoanReturned {
			return ErrLoanNotOpen
		}
		previous := loan.Status

		res := tx.Model(&models.Loan{}).
			Where("id = ? AND status = ?", loanID, previous).
			Updates(map[string]any{
				"status":      models.LoanReturned,
				"returned_at": at,
			})
		if res.Error != nil {
			return fmt.Errorf("return loan %d: %w", loanID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLoanNotOpen
		}

		if err := releaseCopy(tx, loan.BookID); err != nil {
			return err
		}

		if lateFine != nil && previous == models.LoanActive {
			lateFine.LoanID = loanID
			lateFine.Status = models.FinePending
			if err := tx.Create(lateFine).Error; err != nil {
				return fmt.Errorf("create late fine for loan %d: %w", loanID, err)
			}
		}

		loan.Status = models.LoanReturned
		loan.ReturnedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
