// Package testutil holds fixtures shared by the repository and service tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"libraryhub/database"
	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB returns a migrated in-memory SQLite database private to the test.
// A single connection is used so concurrent transactions serialize the same
// way row-level conflicts do on Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// RoleID looks up a seeded role.
func RoleID(t *testing.T, db *gorm.DB, name models.RoleName) uint {
	t.Helper()
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("role %s: %v", name, err)
	}
	return role.ID
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.RoleName) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:       "Test",
		PaternalSurname: "User",
		Email:           email,
		Password:        "not-a-real-hash",
		RoleID:          RoleID(t, db, role),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateBook inserts a book with the given number of copies, zero included.
func CreateBook(t *testing.T, db *gorm.DB, isbn string, copies int) *models.Book {
	t.Helper()
	book := &models.Book{ISBN: isbn, Title: "Book " + isbn, Copies: copies}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}
	return book
}

// BookCopies reads the current copy count straight from the table.
func BookCopies(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		t.Fatalf("load book %d: %v", id, err)
	}
	return book.Copies
}
