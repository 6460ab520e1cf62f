package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
// The *gorm.DB should be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// Create inserts a new book, assigning its ID.
func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.InStock == nil {
		inStock := true
		book.InStock = &inStock
	}
	book.TitleSearch = foldSearch(book.Title)
	book.AuthorSearch = foldSearch(book.Author)
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create book: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Find returns one page of books matching filter, in insertion order.
func (r *GORMBookRepository) Find(ctx context.Context, filter models.BookFilter, skip, limit int) ([]models.Book, error) {
	books := []models.Book{}
	q := applyBookFilter(r.db.WithContext(ctx).Model(&models.Book{}), filter).
		Order("created_at").Order("id").
		Offset(skip).
		Limit(limit)
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	return books, nil
}

// Count returns the number of books matching filter.
func (r *GORMBookRepository) Count(ctx context.Context, filter models.BookFilter) (int64, error) {
	var total int64
	q := applyBookFilter(r.db.WithContext(ctx).Model(&models.Book{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

// FindByID retrieves a single book by its ID.
func (r *GORMBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// FindOneAndUpdate updates the book with the given ID and returns the stored result.
func (r *GORMBookRepository) FindOneAndUpdate(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := bookUpdates(changes)
		if len(updates) > 0 {
			res := tx.Model(&models.Book{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			// RowsAffected counts matched rows on sqlite and postgres.
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("book with ID %s not found for update: %w", id, ErrNotFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to update book: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return &book, nil
}

// DeleteByID deletes a book by its ID and reports how many rows were removed.
func (r *GORMBookRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete book: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func applyBookFilter(q *gorm.DB, f models.BookFilter) *gorm.DB {
	if f.Title != nil {
		q = q.Where(`title_search LIKE ? ESCAPE '\'`, containsPattern(*f.Title))
	}
	if f.Author != nil {
		q = q.Where(`author_search LIKE ? ESCAPE '\'`, containsPattern(*f.Author))
	}
	if f.Price != nil {
		q = q.Where("price = ?", *f.Price)
	}
	if f.InStock != nil {
		q = q.Where("in_stock = ?", *f.InStock)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// foldSearch lowercases with Unicode rules. SQLite's LOWER only folds ASCII,
// so the search columns are written already folded.
func foldSearch(s string) string {
	return strings.ToLower(s)
}

// containsPattern builds a substring LIKE pattern against the folded columns.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(foldSearch(term)) + "%"
}

func bookUpdates(c models.BookChanges) map[string]interface{} {
	updates := make(map[string]interface{})
	if c.Title != nil {
		updates["title"] = *c.Title
		updates["title_search"] = foldSearch(*c.Title)
	} else if c.Replace {
		updates["title"] = ""
		updates["title_search"] = ""
	}
	if c.Author != nil {
		updates["author"] = *c.Author
		updates["author_search"] = foldSearch(*c.Author)
	} else if c.Replace {
		updates["author"] = ""
		updates["author_search"] = ""
	}
	if c.Genre != nil {
		updates["genre"] = *c.Genre
	} else if c.Replace {
		updates["genre"] = ""
	}
	if c.PublishedDate != nil {
		updates["published_date"] = *c.PublishedDate
	} else if c.Replace {
		updates["published_date"] = nil
	}
	if c.Price != nil {
		updates["price"] = *c.Price
	} else if c.Replace {
		updates["price"] = 0
	}
	if c.InStock != nil {
		updates["in_stock"] = *c.InStock
	} else if c.Replace {
		updates["in_stock"] = nil
	}
	return updates
}
