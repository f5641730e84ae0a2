package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

// mockCtx matches the per-request timeout context.
const mockCtx = mock.Anything

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string, claims *service.Claims) error {
	return m.Called(ctx, refreshToken, claims).Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Submit(ctx context.Context, readerID uint, bookIDs []uint) (*models.Request, error) {
	args := m.Called(ctx, readerID, bookIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestService) Approve(ctx context.Context, requestID, librarianID uint) ([]models.Loan, error) {
	args := m.Called(ctx, requestID, librarianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockRequestService) Reject(ctx context.Context, requestID, librarianID uint) error {
	return m.Called(ctx, requestID, librarianID).Error(0)
}

func (m *MockRequestService) ListByStatus(ctx context.Context, callerID uint, status models.RequestStatus) ([]models.Request, error) {
	args := m.Called(ctx, callerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestService) ListMine(ctx context.Context, readerID uint) ([]models.Request, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Return(ctx context.Context, loanID, librarianID uint) (*models.Loan, error) {
	args := m.Called(ctx, loanID, librarianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanService) ListMine(ctx context.Context, readerID uint) ([]models.Loan, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanService) ScanOverdue(ctx context.Context, now time.Time) (*service.ScanReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanReport), args.Error(1)
}

type MockFineService struct {
	mock.Mock
}

func (m *MockFineService) Process(ctx context.Context, fineID, librarianID uint, action service.FineAction) (*models.Fine, error) {
	args := m.Called(ctx, fineID, librarianID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fine), args.Error(1)
}

func (m *MockFineService) ListByStatus(ctx context.Context, callerID uint, status models.FineStatus) ([]models.Fine, error) {
	args := m.Called(ctx, callerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fine), args.Error(1)
}

func (m *MockFineService) ListMine(ctx context.Context, readerID uint) ([]models.Fine, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fine), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Delete(ctx context.Context, userID, adminID uint) error {
	return m.Called(ctx, userID, adminID).Error(0)
}

func (m *MockUserService) List(ctx context.Context, adminID uint) ([]models.User, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, librarianID uint, in service.NewBook) (*models.Book, error) {
	args := m.Called(ctx, librarianID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id uint) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Librarian(ctx context.Context, librarianID uint) (*models.LibrarianSummary, error) {
	args := m.Called(ctx, librarianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LibrarianSummary), args.Error(1)
}

func (m *MockSummaryService) Reader(ctx context.Context, readerID uint) (*models.ReaderSummary, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReaderSummary), args.Error(1)
}

// stubValidator accepts "<role>-token" for the fixed test identities.
type stubValidator struct{}

const (
	readerID    uint = 10
	librarianID uint = 20
	adminID     uint = 30
)

func (stubValidator) ValidateToken(_ context.Context, token string) (*service.Claims, error) {
	switch token {
	case "reader-token":
		return &service.Claims{UserID: readerID, Role: models.RoleReader}, nil
	case "librarian-token":
		return &service.Claims{UserID: librarianID, Role: models.RoleLibrarian}, nil
	case "admin-token":
		return &service.Claims{UserID: adminID, Role: models.RoleAdministrator}, nil
	}
	return nil, service.ErrInvalidToken
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
