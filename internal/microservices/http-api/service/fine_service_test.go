package service

import (
	"context"
	"testing"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestFineService() (*fineService, *MockFineRepository) {
	fines := new(MockFineRepository)
	svc := NewFineService(NewGuard(usersWithRoles()), fines, discardLogger()).(*fineService)
	svc.now = fixedClock(testNow)
	return svc, fines
}

func TestParseFineAction(t *testing.T) {
	a, err := ParseFineAction(" Pay ")
	require.NoError(t, err)
	assert.Equal(t, FineActionPay, a)

	a, err = ParseFineAction("waive")
	require.NoError(t, err)
	assert.Equal(t, FineActionWaive, a)

	_, err = ParseFineAction("forgive")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFineService_Process(t *testing.T) {
	svc, fines := newTestFineService()
	fines.On("Resolve", mock.Anything, uint(3), models.FinePaid, librarianID, testNow).
		Return(&models.Fine{ID: 3, Status: models.FinePaid}, nil).Once()
	fines.On("Resolve", mock.Anything, uint(4), models.FineWaived, librarianID, testNow).
		Return(&models.Fine{ID: 4, Status: models.FineWaived}, nil).Once()

	paid, err := svc.Process(context.Background(), 3, librarianID, FineActionPay)
	require.NoError(t, err)
	assert.Equal(t, models.FinePaid, paid.Status)

	waived, err := svc.Process(context.Background(), 4, librarianID, FineActionWaive)
	require.NoError(t, err)
	assert.Equal(t, models.FineWaived, waived.Status)
	fines.AssertExpectations(t)
}

func TestFineService_ProcessErrors(t *testing.T) {
	svc, fines := newTestFineService()
	fines.On("Resolve", mock.Anything, uint(3), models.FineWaived, librarianID, testNow).Return(nil, repository.ErrFineNotPending)
	fines.On("Resolve", mock.Anything, uint(9), models.FinePaid, librarianID, testNow).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Process(context.Background(), 3, librarianID, FineActionWaive)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Process(context.Background(), 9, librarianID, FineActionPay)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Process(context.Background(), 3, librarianID, "forgive")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Process(context.Background(), 3, readerID, FineActionPay)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFineService_Lists(t *testing.T) {
	svc, fines := newTestFineService()
	fines.On("ListByStatus", mock.Anything, models.FinePending).Return([]models.Fine{{ID: 1}}, nil)
	fines.On("ListByUser", mock.Anything, readerID).Return([]models.Fine{{ID: 2}}, nil)

	pending, err := svc.ListByStatus(context.Background(), librarianID, models.FinePending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mine, err := svc.ListMine(context.Background(), readerID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListByStatus(context.Background(), librarianID, "Forgotten")
	assert.ErrorIs(t, err, ErrValidation)
}
