package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func userExists(t *testing.T, db *gorm.DB, id uint) bool {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Count(&n).Error)
	return n > 0
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	role, err := repo.RoleByName(ctx, models.RoleReader)
	require.NoError(t, err)

	user := &models.User{
		FirstName:       "Ana",
		PaternalSurname: "Ruiz",
		Email:           "ana@example.com",
		Password:        "hash",
		RoleID:          role.ID,
	}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, models.RoleReader, byEmail.RoleName())
	assert.Nil(t, byEmail.MaternalSurname)

	dup := &models.User{FirstName: "A", PaternalSurname: "B", Email: "ana@example.com", Password: "x", RoleID: role.ID}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_DeleteBlockedByOpenLoan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	book := testutil.CreateBook(t, db, "978-0000000001", 1)
	loan := approvedLoan(t, db, "reader@example.com", book)

	err := repo.DeleteIfUnencumbered(context.Background(), loan.UserID)

	assert.ErrorIs(t, err, repository.ErrUserHasOpenLoans)
	assert.True(t, userExists(t, db, loan.UserID))
	var loans int64
	require.NoError(t, db.Model(&models.Loan{}).Where("user_id = ?", loan.UserID).Count(&loans).Error)
	assert.Equal(t, int64(1), loans)
}

func TestUserRepository_DeleteBlockedByOverdueLoan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	book := testutil.CreateBook(t, db, "978-0000000001", 1)
	loan := approvedLoan(t, db, "reader@example.com", book)
	_, err := repository.NewLoanRepository(db).MarkOverdue(context.Background(), loan.ID, start.Add(loanPeriod+time.Hour), 50)
	require.NoError(t, err)

	err = repo.DeleteIfUnencumbered(context.Background(), loan.UserID)
	assert.ErrorIs(t, err, repository.ErrUserHasOpenLoans)
	assert.True(t, userExists(t, db, loan.UserID))
}

func TestUserRepository_DeleteBlockedByPendingFine(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	_, loan := pendingFine(t, db, "reader@example.com", "978-0000000001")
	_, err := repository.NewLoanRepository(db).Return(context.Background(), loan.ID, start.Add(loanPeriod+2*time.Hour), nil)
	require.NoError(t, err)

	err = repo.DeleteIfUnencumbered(context.Background(), loan.UserID)

	assert.ErrorIs(t, err, repository.ErrUserHasPendingFines)
	assert.True(t, userExists(t, db, loan.UserID))
}

func TestUserRepository_DeleteRemovesHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	librarian := testutil.CreateUser(t, db, "librarian@example.com", models.RoleLibrarian)
	fine, loan := pendingFine(t, db, "reader@example.com", "978-0000000001")
	ctx := context.Background()

	_, err := repository.NewLoanRepository(db).Return(ctx, loan.ID, start.Add(loanPeriod+2*time.Hour), nil)
	require.NoError(t, err)
	_, err = repository.NewFineRepository(db).Resolve(ctx, fine.ID, models.FinePaid, librarian.ID, start.Add(loanPeriod+3*time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteIfUnencumbered(ctx, loan.UserID))

	assert.False(t, userExists(t, db, loan.UserID))
	for _, m := range []any{&models.Loan{}, &models.Fine{}, &models.Request{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	var links int64
	require.NoError(t, db.Table("request_books").Count(&links).Error)
	assert.Zero(t, links)

	// the librarian is untouched
	assert.True(t, userExists(t, db, librarian.ID))
}

func TestUserRepository_DeleteFailsWhenLoanAppearsMidway(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	repo := repository.NewUserRepository(db)
	book := testutil.CreateBook(t, db, "978-0000000001", 2)
	reader := testutil.CreateUser(t, db, "reader@example.com", models.RoleReader)
	req := submit(t, repository.NewRequestRepository(db), reader.ID, book)

	// a loan lands after the open-loan check, as a concurrent approval would
	inserted := false
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:late_loan", func(tx *gorm.DB) {
		if inserted || tx.Statement.Table != "loan_requests" {
			return
		}
		inserted = true
		late := &models.Loan{
			RequestID: req.ID,
			UserID:    reader.ID,
			BookID:    book.ID,
			StartedAt: start,
			DueAt:     start.Add(loanPeriod),
			Status:    models.LoanActive,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(late).Error; err != nil {
			tx.AddError(err)
		}
	}))

	err := repo.DeleteIfUnencumbered(context.Background(), reader.ID)

	require.True(t, inserted)
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
	assert.True(t, userExists(t, db, reader.ID))
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	err := repo.DeleteIfUnencumbered(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
