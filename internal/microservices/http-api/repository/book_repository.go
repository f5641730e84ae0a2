package repository

import (
	"context"
	"fmt"
	"strings"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book, authorNames, genreNames []string) error
	FindByID(ctx context.Context, id uint) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create inserts the book and links it to authors and genres, reusing existing
// rows whose name matches ignoring case. A new row keeps the spelling it was
// first given.
func (r *bookRepository) Create(ctx context.Context, book *models.Book, authorNames, genreNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range dedupeNames(authorNames) {
			var author models.Author
			if err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).Attrs(models.Author{Name: name}).FirstOrCreate(&author).Error; err != nil {
				return fmt.Errorf("upsert author %q: %w", name, err)
			}
			book.Authors = append(book.Authors, author)
		}
		for _, name := range dedupeNames(genreNames) {
			var genre models.Genre
			if err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).Attrs(models.Genre{Name: name}).FirstOrCreate(&genre).Error; err != nil {
				return fmt.Errorf("upsert genre %q: %w", name, err)
			}
			book.Genres = append(book.Genres, genre)
		}
		if err := tx.Omit("Authors.*", "Genres.*").Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return nil
	})
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Preload("Authors").Preload("Genres").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Book, error) {
	var books []models.Book
	if len(ids) == 0 {
		return books, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return books, nil
}

// reserveCopy takes one copy off the shelf. The WHERE guard makes the decrement
// a no-op when nothing is left, so the count never drops below zero.
func reserveCopy(tx *gorm.DB, bookID uint) (bool, error) {
	res := tx.Model(&models.Book{}).
		Where("id = ? AND copies > 0", bookID).
		UpdateColumn("copies", gorm.Expr("copies - ?", 1))
	if res.Error != nil {
		return false, fmt.Errorf("reserve copy of book %d: %w", bookID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// releaseCopy puts one copy back on the shelf.
func releaseCopy(tx *gorm.DB, bookID uint) error {
	res := tx.Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("copies", gorm.Expr("copies + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("release copy of book %d: %w", bookID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("release copy of book %d: %w", bookID, gorm.ErrRecordNotFound)
	}
	return nil
}

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	return out
}
