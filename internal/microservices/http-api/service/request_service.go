package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

type RequestService interface {
	Submit(ctx context.Context, readerID uint, bookIDs []uint) (*models.Request, error)
	Approve(ctx context.Context, requestID, librarianID uint) ([]models.Loan, error)
	Reject(ctx context.Context, requestID, librarianID uint) error
	ListByStatus(ctx context.Context, callerID uint, status models.RequestStatus) ([]models.Request, error)
	ListMine(ctx context.Context, readerID uint) ([]models.Request, error)
}

type requestService struct {
	guard      Guard
	requests   repository.RequestRepository
	books      repository.BookRepository
	loanPeriod time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewRequestService(
	guard Guard,
	requests repository.RequestRepository,
	books repository.BookRepository,
	loanPeriod time.Duration,
	logger *slog.Logger,
) RequestService {
	return &requestService{
		guard:      guard,
		requests:   requests,
		books:      books,
		loanPeriod: loanPeriod,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit records a pending request for the given books. Duplicate ids collapse
// into one; every id must name an existing book.
func (s *requestService) Submit(ctx context.Context, readerID uint, bookIDs []uint) (*models.Request, error) {
	if _, err := s.guard.Require(ctx, readerID, models.RoleReader); err != nil {
		return nil, err
	}

	ids := uniqueIDs(bookIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one book is required", ErrValidation)
	}

	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, classify(err, "books")
	}
	if missing := missingIDs(ids, books); len(missing) > 0 {
		return nil, fmt.Errorf("%w: books %v", ErrNotFound, missing)
	}

	req := &models.Request{
		UserID: readerID,
		Status: models.RequestPending,
		Books:  books,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, classify(err, "request")
	}

	s.logger.Info("loan request submitted", "request_id", req.ID, "user_id", readerID, "books", len(books))
	return req, nil
}

func (s *requestService) Approve(ctx context.Context, requestID, librarianID uint) ([]models.Loan, error) {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return nil, err
	}

	loans, err := s.requests.Approve(ctx, requestID, librarianID, s.now().UTC(), s.loanPeriod)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("request %d", requestID))
	}

	s.logger.Info("loan request approved", "request_id", requestID, "librarian_id", librarianID, "loans", len(loans))
	return loans, nil
}

func (s *requestService) Reject(ctx context.Context, requestID, librarianID uint) error {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return err
	}

	if err := s.requests.Reject(ctx, requestID, librarianID, s.now().UTC()); err != nil {
		return classify(err, fmt.Sprintf("request %d", requestID))
	}

	s.logger.Info("loan request rejected", "request_id", requestID, "librarian_id", librarianID)
	return nil
}

func (s *requestService) ListByStatus(ctx context.Context, callerID uint, status models.RequestStatus) ([]models.Request, error) {
	if _, err := s.guard.Require(ctx, callerID, models.RoleLibrarian); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown request status %q", ErrValidation, status)
	}

	list, err := s.requests.ListByStatus(ctx, status)
	if err != nil {
		return nil, classify(err, "requests")
	}
	return list, nil
}

func (s *requestService) ListMine(ctx context.Context, readerID uint) ([]models.Request, error) {
	if _, err := s.guard.Require(ctx, readerID, models.RoleReader); err != nil {
		return nil, err
	}

	list, err := s.requests.ListByUser(ctx, readerID)
	if err != nil {
		return nil, classify(err, "requests")
	}
	return list, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingIDs(want []uint, books []models.Book) []uint {
	found := make(map[uint]bool, len(books))
	for _, b := range books {
		found[b.ID] = true
	}
	var missing []uint
	for _, id := range want {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
