package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	FindByID(ctx context.Context, id uint) (*models.Request, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Request, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Request, error)
	Approve(ctx context.Context, id, librarianID uint, start time.Time, loanPeriod time.Duration) ([]models.Loan, error)
	Reject(ctx context.Context, id, librarianID uint, at time.Time) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create stores the request and its book links. Books are referenced by ID only.
func (r *requestRepository) Create(ctx context.Context, req *models.Request) error {
	if err := r.db.WithContext(ctx).Omit("Books.*").Create(req).Error; err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	if err := r.db.WithContext(ctx).
		Preload("Books").
		Preload("User").
		First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Request, error) {
	var list []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Books").
		Preload("User").
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list requests by status: %w", err)
	}
	return list, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uint) ([]models.Request, error) {
	var list []models.Request
	if err := r.db.WithContext(ctx).
		Preload("Books").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list requests by user: %w", err)
	}
	return list, nil
}

// Approve decides a pending request in one transaction: the status flips to
// Approved, every requested book loses one copy and one Active loan per book is
// created. If any book has no copy left the whole transaction rolls back and the
// request stays Pending.
func (r *requestRepository) Approve(ctx context.Context, id, librarianID uint, start time.Time, loanPeriod time.Duration) ([]models.Loan, error) {
	var loans []models.Loan

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Preload("Books").First(&req, id).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrRequestNotPending
		}
		if len(req.Books) == 0 {
			return ErrRequestHasNoBooks
		}

		if err := decide(tx, id, models.RequestApproved, librarianID, start); err != nil {
			return err
		}

		due := start.Add(loanPeriod)
		loans = make([]models.Loan, 0, len(req.Books))
		for _, book := range req.Books {
			ok, err := reserveCopy(tx, book.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: book %d %q", ErrNoCopiesAvailable, book.ID, book.Title)
			}
			loans = append(loans, models.Loan{
				RequestID: req.ID,
				UserID:    req.UserID,
				BookID:    book.ID,
				StartedAt: start,
				DueAt:     due,
				Status:    models.LoanActive,
			})
		}

		if err := tx.Create(&loans).Error; err != nil {
			return fmt.Errorf("create loans: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// Reject moves a pending request to Rejected. Catalog and loans are untouched.
func (r *requestRepository) Reject(ctx context.Context, id, librarianID uint, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Select("id", "status").First(&req, id).Error; err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrRequestNotPending
		}
		return decide(tx, id, models.RequestRejected, librarianID, at)
	})
}

// decide performs the single Pending -> terminal transition. Losing a race to
// another decision shows up as zero affected rows.
func decide(tx *gorm.DB, id uint, status models.RequestStatus, by uint, at time.Time) error {
	res := tx.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Updates(map[string]any{
			"status":     status,
			"decided_at": at,
			"decided_by": by,
		})
	if res.Error != nil {
		return fmt.Errorf("update request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotPending
	}
	return nil
}
