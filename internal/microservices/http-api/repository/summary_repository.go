package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
)

const (
	tableRequests = "loan_requests"
	tableLoans    = "loans"
	tableFines    = "fines"
	tableBooks    = "books"
)

// SummaryRepository computes the dashboard counters. Queries are built with
// goqu's default dialect, whose "?" placeholders gorm rebinds for the driver.
type SummaryRepository interface {
	Librarian(ctx context.Context) (*models.LibrarianSummary, error)
	Reader(ctx context.Context, userID uint) (*models.ReaderSummary, error)
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Librarian(ctx context.Context) (*models.LibrarianSummary, error) {
	var (
		s   models.LibrarianSummary
		err error
	)

	if s.PendingRequests, err = r.scalarInt(ctx, goqu.From(tableRequests).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("status").Eq(models.RequestPending))); err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}
	if s.PendingFines, err = r.scalarInt(ctx, goqu.From(tableFines).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("status").Eq(models.FinePending))); err != nil {
		return nil, fmt.Errorf("count pending fines: %w", err)
	}
	if s.OverdueLoans, err = r.scalarInt(ctx, goqu.From(tableLoans).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("status").Eq(models.LoanOverdue))); err != nil {
		return nil, fmt.Errorf("count overdue loans: %w", err)
	}
	if s.Books, err = r.scalarInt(ctx, goqu.From(tableBooks).
		Select(goqu.COUNT(goqu.Star()))); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if s.AvailableCopies, err = r.scalarInt(ctx, goqu.From(tableBooks).
		Select(goqu.COALESCE(goqu.SUM("copies"), 0))); err != nil {
		return nil, fmt.Errorf("sum copies: %w", err)
	}

	return &s, nil
}

func (r *summaryRepository) Reader(ctx context.Context, userID uint) (*models.ReaderSummary, error) {
	var (
		s   models.ReaderSummary
		err error
	)

	if s.ActiveLoans, err = r.scalarInt(ctx, goqu.From(tableLoans).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{"user_id": userID, "status": models.LoanActive})); err != nil {
		return nil, fmt.Errorf("count active loans: %w", err)
	}
	if s.OverdueLoans, err = r.scalarInt(ctx, goqu.From(tableLoans).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{"user_id": userID, "status": models.LoanOverdue})); err != nil {
		return nil, fmt.Errorf("count overdue loans: %w", err)
	}
	if s.PendingRequests, err = r.scalarInt(ctx, goqu.From(tableRequests).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{"user_id": userID, "status": models.RequestPending})); err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}

	pendingFines := goqu.From(tableFines).
		Join(goqu.T(tableLoans), goqu.On(goqu.I("loans.id").Eq(goqu.I("fines.loan_id")))).
		Where(
			goqu.I("loans.user_id").Eq(userID),
			goqu.I("fines.status").Eq(models.FinePending),
		)

	if s.PendingFines, err = r.scalarInt(ctx, pendingFines.Select(goqu.COUNT(goqu.Star()))); err != nil {
		return nil, fmt.Errorf("count pending fines: %w", err)
	}
	if s.PendingFineTotal, err = r.scalarFloat(ctx, pendingFines.
		Select(goqu.COALESCE(goqu.SUM(goqu.I("fines.amount")), 0))); err != nil {
		return nil, fmt.Errorf("sum pending fines: %w", err)
	}

	return &s, nil
}

func (r *summaryRepository) scalarInt(ctx context.Context, ds *goqu.SelectDataset) (int64, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *summaryRepository) scalarFloat(ctx context.Context, ds *goqu.SelectDataset) (float64, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var f float64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&f).Error; err != nil {
		return 0, err
	}
	return f, nil
}
