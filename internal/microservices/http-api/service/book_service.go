package service

import (
	"context"
	"fmt"
	"strings"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// NewBook is the catalog entry a librarian adds.
type NewBook struct {
	ISBN    string
	Title   string
	Copies  int
	Authors []string
	Genres  []string
}

type BookService interface {
	Create(ctx context.Context, librarianID uint, in NewBook) (*models.Book, error)
	Get(ctx context.Context, id uint) (*models.Book, error)
}

type bookService struct {
	guard Guard
	books repository.BookRepository
}

func NewBookService(guard Guard, books repository.BookRepository) BookService {
	return &bookService{guard: guard, books: books}
}

func (s *bookService) Create(ctx context.Context, librarianID uint, in NewBook) (*models.Book, error) {
	if _, err := s.guard.Require(ctx, librarianID, models.RoleLibrarian); err != nil {
		return nil, err
	}

	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Title = strings.TrimSpace(in.Title)
	if in.ISBN == "" || in.Title == "" {
		return nil, fmt.Errorf("%w: isbn and title are required", ErrValidation)
	}
	if in.Copies < 0 {
		return nil, fmt.Errorf("%w: copies must not be negative", ErrValidation)
	}

	book := &models.Book{ISBN: in.ISBN, Title: in.Title, Copies: in.Copies}
	if err := s.books.Create(ctx, book, in.Authors, in.Genres); err != nil {
		return nil, classify(err, fmt.Sprintf("book %s", in.ISBN))
	}
	return book, nil
}

func (s *bookService) Get(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("book %d", id))
	}
	return book, nil
}
