package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookstore/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
type MockBookRepository struct {
	books map[string]models.Book
	order []string
	mu    sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]models.Book),
	}
}

// Create adds a new book.
func (r *MockBookRepository) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if _, ok := r.books[book.ID]; ok {
		return fmt.Errorf("failed to create book %s: %w", book.ID, ErrDuplicate)
	}
	if book.InStock == nil {
		inStock := true
		book.InStock = &inStock
	}
	book.CreatedAt = time.Now()
	r.books[book.ID] = *book
	r.order = append(r.order, book.ID)
	return nil
}

// Find returns one page of matching books in insertion order.
func (r *MockBookRepository) Find(_ context.Context, filter models.BookFilter, skip, limit int) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := []models.Book{}
	seen := 0
	for _, id := range r.order {
		b := r.books[id]
		if !matchesFilter(b, filter) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if len(books) >= limit {
			break
		}
		books = append(books, b)
	}
	return books, nil
}

// Count returns the number of matching books.
func (r *MockBookRepository) Count(_ context.Context, filter models.BookFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, b := range r.books {
		if matchesFilter(b, filter) {
			total++
		}
	}
	return total, nil
}

// FindByID returns a book by its ID.
func (r *MockBookRepository) FindByID(_ context.Context, id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return &book, nil
}

// FindOneAndUpdate modifies an existing book.
func (r *MockBookRepository) FindOneAndUpdate(_ context.Context, id string, changes models.BookChanges) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s not found for update: %w", id, ErrNotFound)
	}
	applyChanges(&book, changes)
	r.books[id] = book
	return &book, nil
}

// DeleteByID removes a book by its ID.
func (r *MockBookRepository) DeleteByID(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return 0, nil
	}
	delete(r.books, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func matchesFilter(b models.Book, f models.BookFilter) bool {
	if f.Title != nil && !containsFold(b.Title, *f.Title) {
		return false
	}
	if f.Author != nil && !containsFold(b.Author, *f.Author) {
		return false
	}
	if f.Price != nil && b.Price != *f.Price {
		return false
	}
	if f.InStock != nil && (b.InStock == nil || *b.InStock != *f.InStock) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func applyChanges(b *models.Book, c models.BookChanges) {
	if c.Title != nil {
		b.Title = *c.Title
	} else if c.Replace {
		b.Title = ""
	}
	if c.Author != nil {
		b.Author = *c.Author
	} else if c.Replace {
		b.Author = ""
	}
	if c.Genre != nil {
		b.Genre = *c.Genre
	} else if c.Replace {
		b.Genre = ""
	}
	if c.PublishedDate != nil {
		published := *c.PublishedDate
		b.PublishedDate = &published
	} else if c.Replace {
		b.PublishedDate = nil
	}
	if c.Price != nil {
		b.Price = *c.Price
	} else if c.Replace {
		b.Price = 0
	}
	if c.InStock != nil {
		inStock := *c.InStock
		b.InStock = &inStock
	} else if c.Replace {
		b.InStock = nil
	}
}
