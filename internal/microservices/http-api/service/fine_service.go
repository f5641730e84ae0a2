package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// FineAction is what a librarian does with a pending fine.
type FineAction string

const (
	FineActionPay   FineAction = "pay"
	FineActionWaive FineAction = "waive"
)

// ParseFineAction accepts the action names case-insensitively.
func ParseFineAction(s string) (FineAction, error) {
	switch a := FineAction(strings.ToLower(strings.TrimSpace(s))); a {
	case FineActionPay, FineActionWaive:
		return a, nil
	}
	return "", fmt.Errorf("%w: action must be %q or %q", ErrValidation, FineActionPay, FineActionWaive)
}

func (a FineAction) status() models.FineStatus {
	if a == FineActionPay {
		return models.FinePaid
	}
	return models.FineWaived
}

type FineService interface {
	Process(ctx context.Context, fineID, librarianID uint, action FineAction) (*models.Fine, error)
	ListByStatus(ctx context.Context, callerID uint, status models.FineStatus) ([]models.Fine, error)
	ListMine(ctx context.Context, readerID uint) ([]models.Fine, error)
}

type fineService struct {
	guard  Guard
	fines  repository.FineRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewFineService(guard Guard, fines repository.FineRepository, logger *slog.Logger) FineService {
	return &fineService{
		guard:  guard,
		fines:  fines,
		logger: logger,
		now:    time.Now,
	}
}

func (s *fineService) Process(ctx context.Context, fineID, librarianID uint, action FineAction) (*models.Fine, error) {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return nil, err
	}
	action, err := ParseFineAction(string(action))
	if err != nil {
		return nil, err
	}

	fine, err := s.fines.Resolve(ctx, fineID, action.status(), librarianID, s.now().UTC())
	if err != nil {
		return nil, classify(err, fmt.Sprintf("fine %d", fineID))
	}

	s.logger.Info("fine processed", "fine_id", fineID, "librarian_id", librarianID, "status", fine.Status)
	return fine, nil
}

func (s *fineService) ListByStatus(ctx context.Context, callerID uint, status models.FineStatus) ([]models.Fine, error) {
	if _, err := s.guard.Require(ctx, callerID, models.RoleLibrarian); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown fine status %q", ErrValidation, status)
	}

	fines, err := s.fines.ListByStatus(ctx, status)
	if err != nil {
		return nil, classify(err, "fines")
	}
	return fines, nil
}

func (s *fineService) ListMine(ctx context.Context, readerID uint) ([]models.Fine, error) {
	if _, err := s.guard.Require(ctx, readerID, models.RoleReader); err != nil {
		return nil, err
	}

	fines, err := s.fines.ListByUser(ctx, readerID)
	if err != nil {
		return nil, classify(err, "fines")
	}
	return fines, nil
}
