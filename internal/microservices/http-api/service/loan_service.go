package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/worker"
)

const overdueBatchSize = 500

// ScanReport summarises one overdue detection pass.
type ScanReport struct {
	Scanned    int       `json:"scanned"`
	Flagged    int       `json:"flagged"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	FineTotal  float64   `json:"fine_total"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type LoanService interface {
	Return(ctx context.Context, loanID, librarianID uint) (*models.Loan, error)
	ListMine(ctx context.Context, readerID uint) ([]models.Loan, error)
	// ScanOverdue flags every Active loan due before now and fines it once.
	// It is driven by the scheduler, not by a user. The report is returned
	// even when the error wraps ErrScanIncomplete.
	ScanOverdue(ctx context.Context, now time.Time) (*ScanReport, error)
}

type loanService struct {
	guard   Guard
	loans   repository.LoanRepository
	policy  FinePolicy
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

func NewLoanService(
	guard Guard,
	loans repository.LoanRepository,
	policy FinePolicy,
	workers int,
	logger *slog.Logger,
) LoanService {
	return &loanService{
		guard:   guard,
		loans:   loans,
		policy:  policy,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Return closes the loan and restores the copy. A loan that is still Active
// past its due date gets its fine here, since the scan never saw it.
func (s *loanService) Return(ctx context.Context, loanID, librarianID uint) (*models.Loan, error) {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return nil, err
	}

	what := fmt.Sprintf("loan %d", loanID)
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, classify(err, what)
	}

	now := s.now().UTC()
	var lateFine *models.Fine
	if loan.Status == models.LoanActive {
		if amount := s.policy.Amount(loan, now); amount > 0 {
			lateFine = &models.Fine{Amount: amount, GeneratedAt: now}
		}
	}

	returned, err := s.loans.Return(ctx, loanID, now, lateFine)
	if err != nil {
		return nil, classify(err, what)
	}

	s.logger.Info("loan returned", "loan_id", loanID, "librarian_id", librarianID, "late_fine", lateFine != nil)
	return returned, nil
}

func (s *loanService) ListMine(ctx context.Context, readerID uint) ([]models.Loan, error) {
	if _, err := s.guard.Require(ctx, readerID, models.RoleReader); err != nil {
		return nil, err
	}

	loans, err := s.loans.ListByUser(ctx, readerID)
	if err != nil {
		return nil, classify(err, "loans")
	}
	return loans, nil
}

func (s *loanService) ScanOverdue(ctx context.Context, now time.Time) (*ScanReport, error) {
	now = now.UTC()
	report := &ScanReport{StartedAt: s.now().UTC()}

	for {
		batch, err := s.loans.ListDue(ctx, now, overdueBatchSize)
		if err != nil {
			return report, fmt.Errorf("list due loans: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		flagged := s.scanBatch(ctx, batch, now, report)
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		// rows that failed stay Active; stop instead of retrying them forever
		if flagged == 0 || len(batch) < overdueBatchSize {
			break
		}
	}

	report.FinishedAt = s.now().UTC()
	s.logger.Info("overdue scan finished",
		"scanned", report.Scanned,
		"flagged", report.Flagged,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"fine_total", report.FineTotal,
	)
	if report.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d loans failed", ErrScanIncomplete, report.Failed, report.Scanned)
	}
	return report, nil
}

func (s *loanService) scanBatch(ctx context.Context, batch []models.Loan, now time.Time, report *ScanReport) int {
	var (
		mu      sync.Mutex
		flagged int
	)

	pool := worker.New(ctx, s.workers, s.logger)
	pool.Start()

	for i := range batch {
		loan := batch[i]
		err := pool.Submit(func(ctx context.Context) error {
			amount := s.policy.Amount(&loan, now)
			fine, err := s.loans.MarkOverdue(ctx, loan.ID, now, amount)

			mu.Lock()
			defer mu.Unlock()
			report.Scanned++
			switch {
			case err == nil:
				flagged++
				report.Flagged++
				report.FineTotal += fine.Amount
				return nil
			case errors.Is(err, repository.ErrLoanNotDue):
				// returned or flagged by someone else in between
				report.Skipped++
				return nil
			}
			report.Failed++
			return fmt.Errorf("mark loan %d overdue: %w", loan.ID, err)
		})
		if err != nil {
			break
		}
	}
	pool.Wait()

	return flagged
}
