package repositories

import (
	"context"
	"errors"

	"bookstore/internal/models"
)

var (
	// ErrNotFound is returned when no book matches the given identifier.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicate is returned when the store rejects a write on a unique constraint.
	ErrDuplicate = errors.New("duplicate book")
)

// BookRepository defines the interface for book data access.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	Find(ctx context.Context, filter models.BookFilter, skip, limit int) ([]models.Book, error)
	Count(ctx context.Context, filter models.BookFilter) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	// FindOneAndUpdate applies changes and returns the book as stored afterwards.
	FindOneAndUpdate(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error)
	// DeleteByID returns the number of removed books.
	DeleteByID(ctx context.Context, id string) (int64, error)
}
