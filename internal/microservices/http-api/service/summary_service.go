package service

import (
	"context"
	"fmt"
	"log/slog"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// ValueCache is a short-lived key/value cache. Misses are not errors.
type ValueCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type SummaryService interface {
	Librarian(ctx context.Context, librarianID uint) (*models.LibrarianSummary, error)
	Reader(ctx context.Context, readerID uint) (*models.ReaderSummary, error)
}

type summaryService struct {
	guard   Guard
	summary repository.SummaryRepository
	cache   ValueCache
	logger  *slog.Logger
}

// NewSummaryService builds the dashboard service. cache may be nil.
func NewSummaryService(guard Guard, summary repository.SummaryRepository, cache ValueCache, logger *slog.Logger) SummaryService {
	return &summaryService{guard: guard, summary: summary, cache: cache, logger: logger}
}

func (s *summaryService) Librarian(ctx context.Context, librarianID uint) (*models.LibrarianSummary, error) {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return nil, err
	}

	var out models.LibrarianSummary
	if s.cached(ctx, "librarian", &out) {
		return &out, nil
	}

	sum, err := s.summary.Librarian(ctx)
	if err != nil {
		return nil, classify(err, "librarian summary")
	}
	s.store(ctx, "librarian", sum)
	return sum, nil
}

func (s *summaryService) Reader(ctx context.Context, readerID uint) (*models.ReaderSummary, error) {
	if _, err := s.guard.Require(ctx, readerID, models.RoleReader); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reader:%d", readerID)
	var out models.ReaderSummary
	if s.cached(ctx, key, &out) {
		return &out, nil
	}

	sum, err := s.summary.Reader(ctx, readerID)
	if err != nil {
		return nil, classify(err, "reader summary")
	}
	s.store(ctx, key, sum)
	return sum, nil
}

// cache failures degrade to a database read
func (s *summaryService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("summary cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *summaryService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("summary cache write failed", "key", key, "error", err)
	}
}
