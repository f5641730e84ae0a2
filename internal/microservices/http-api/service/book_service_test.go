package service

import (
	"context"
	"fmt"
	"testing"

	"libraryhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBookService_Create(t *testing.T) {
	books := new(MockBookRepository)
	svc := NewBookService(NewGuard(usersWithRoles()), books)

	books.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.ISBN == "978-0" && b.Title == "Dune" && b.Copies == 0
	}), []string{"Frank Herbert"}, []string(nil)).Return(nil)

	book, err := svc.Create(context.Background(), librarianID, NewBook{
		ISBN:    " 978-0 ",
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	})

	require.NoError(t, err)
	assert.Equal(t, "978-0", book.ISBN)
	books.AssertExpectations(t)
}

func TestBookService_CreateRejected(t *testing.T) {
	tests := []struct {
		name    string
		caller  uint
		in      NewBook
		wantErr error
	}{
		{"reader", readerID, NewBook{ISBN: "978-0", Title: "Dune", Copies: 1}, ErrForbidden},
		{"unknown caller", 99, NewBook{ISBN: "978-0", Title: "Dune", Copies: 1}, ErrUnauthorized},
		{"blank title", librarianID, NewBook{ISBN: "978-0", Title: "  ", Copies: 1}, ErrValidation},
		{"negative copies", librarianID, NewBook{ISBN: "978-0", Title: "Dune", Copies: -1}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := usersWithRoles()
			users.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound).Maybe()
			books := new(MockBookRepository)
			svc := NewBookService(NewGuard(users), books)

			_, err := svc.Create(context.Background(), tt.caller, tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookService_CreateDuplicateISBN(t *testing.T) {
	books := new(MockBookRepository)
	svc := NewBookService(NewGuard(usersWithRoles()), books)
	books.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("create book: %w", gorm.ErrDuplicatedKey))

	_, err := svc.Create(context.Background(), librarianID, NewBook{ISBN: "978-0", Title: "Dune", Copies: 1})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookService_Get(t *testing.T) {
	books := new(MockBookRepository)
	svc := NewBookService(NewGuard(usersWithRoles()), books)
	books.On("FindByID", mock.Anything, uint(1)).Return(&models.Book{ID: 1, Title: "Dune"}, nil)
	books.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	book, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
