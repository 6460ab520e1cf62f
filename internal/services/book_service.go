package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"bookstore/internal/audit"
	"bookstore/internal/cache"
	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// UpdateMode controls how fields missing from an update request are treated.
type UpdateMode string

const (
	// UpdateMerge leaves fields absent from the request untouched.
	UpdateMerge UpdateMode = "merge"
	// UpdateReplace clears fields absent from the request.
	UpdateReplace UpdateMode = "replace"
)

// Options tunes a BookService.
type Options struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	UpdateMode      UpdateMode
}

// DefaultOptions returns the options the service runs with when nothing is configured.
func DefaultOptions() Options {
	return Options{
		CacheTTL:        30 * time.Second,
		DefaultPageSize: 50,
		UpdateMode:      UpdateMerge,
	}
}

// ListPage is the payload of a non-empty listing.
type ListPage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	AllBooks   []models.Book `json:"allBooks"`
	Books      int64         `json:"books"`
}

// BookService handles business logic related to books: validation,
// the read-through cache and auditing.
type BookService struct {
	repo     repositories.BookRepository
	cache    cache.Store
	audit    audit.Sink
	validate *validator.Validate
	opts     Options
}

// NewBookService creates a new BookService.
func NewBookService(repo repositories.BookRepository, cacheStore cache.Store, sink audit.Sink, opts Options) *BookService {
	if sink == nil {
		sink = audit.LogSink{}
	}
	return &BookService{
		repo:     repo,
		cache:    cacheStore,
		audit:    sink,
		validate: newValidator(),
		opts:     opts,
	}
}

// DefaultPageSize is the page size used when a listing does not set one.
func (s *BookService) DefaultPageSize() int {
	return s.opts.DefaultPageSize
}

// CreateBook validates in and stores it as a new book.
func (s *BookService) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	published, err := s.validateCreate(in)
	if err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:         *in.Title,
		Author:        *in.Author,
		PublishedDate: published,
		Price:         *in.Price,
		InStock:       in.InStock,
	}
	if in.Genre != nil {
		book.Genre = *in.Genre
	}

	if err := s.repo.Create(ctx, book); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(KindConflict, "Duplicate book entry", err)
		}
		return nil, s.fail(ctx, KindStoreUnavailable, "Error while adding book", err)
	}

	s.record(ctx, audit.LevelInfo, "book %s created", book.ID)
	return book, nil
}

// ListBooks returns the JSON payload of one listing page, served from the
// cache when possible. An empty page yields ErrNoBooksFound.
func (s *BookService) ListBooks(ctx context.Context, q ListQuery) ([]byte, error) {
	key := cache.ListKey(q.Filter, q.Page, q.Limit)

	payload, err := s.cached(ctx, key)
	if err != nil || payload != nil {
		return payload, err
	}

	books, err := s.repo.Find(ctx, q.Filter, q.Skip(), q.Limit)
	if err != nil {
		return nil, s.fail(ctx, KindStoreUnavailable, "Error while fetching books", err)
	}
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, s.fail(ctx, KindStoreUnavailable, "Error while fetching books", err)
	}
	if len(books) == 0 {
		return nil, ErrNoBooksFound
	}

	page := ListPage{
		Page:       q.Page,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		AllBooks:   books,
		Books:      total,
	}
	return s.store(ctx, key, page, "Error while fetching books")
}

// GetBook returns the JSON payload of a single book, served from the cache
// when possible.
func (s *BookService) GetBook(ctx context.Context, id string) ([]byte, error) {
	id, err := ValidateID(id)
	if err != nil {
		return nil, err
	}
	key := cache.BookKey(id)

	payload, err := s.cached(ctx, key)
	if err != nil || payload != nil {
		return payload, err
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, "Book not found", err)
		}
		return nil, s.fail(ctx, KindStoreUnavailable, "Error while fetching book", err)
	}
	return s.store(ctx, key, book, "Error while fetching book")
}

// UpdateBook applies in to the book with the given id. Cached copies of the
// book are left to expire on their own.
func (s *BookService) UpdateBook(ctx context.Context, id string, in BookInput) (*models.Book, error) {
	id, err := ValidateID(id)
	if err != nil {
		return nil, err
	}
	published, err := s.validateUpdate(in)
	if err != nil {
		return nil, err
	}

	changes := models.BookChanges{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedDate: published,
		Price:         in.Price,
		InStock:       in.InStock,
		Replace:       s.opts.UpdateMode == UpdateReplace,
	}
	book, err := s.repo.FindOneAndUpdate(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, newError(KindNotFound, "Book not found", err)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, newError(KindConflict, "Duplicate book entry", err)
		}
		return nil, s.fail(ctx, KindStoreUnavailable, "Error while updating book", err)
	}

	s.record(ctx, audit.LevelInfo, "book %s updated", id)
	return book, nil
}

// DeleteBook removes the book with the given id.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	id, err := ValidateID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return s.fail(ctx, KindStoreUnavailable, "Error while deleting book", err)
	}
	if deleted != 1 {
		return newError(KindNotFound, "Book Not Found", nil)
	}

	s.record(ctx, audit.LevelInfo, "book %s deleted", id)
	return nil
}

// cached returns the payload under key, or nil on a miss.
func (s *BookService) cached(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.cache.Get(ctx, key)
	if err == nil {
		return payload, nil
	}
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	return nil, s.fail(ctx, KindCacheUnavailable, "Error in cache server", err)
}

// store marshals v, caches it under key for the configured TTL and returns
// the exact bytes cached.
func (s *BookService) store(ctx context.Context, key string, v interface{}, failMessage string) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, s.fail(ctx, KindUnknown, failMessage, err)
	}
	if err := s.cache.Set(ctx, key, payload, s.opts.CacheTTL); err != nil {
		return nil, s.fail(ctx, KindCacheUnavailable, failMessage, err)
	}
	return payload, nil
}

// fail logs and audits an infrastructure failure and wraps it for the caller.
func (s *BookService) fail(ctx context.Context, kind ErrorKind, message string, err error) error {
	log.Printf("%s (%s): %v", message, kind, err)
	s.record(ctx, audit.LevelError, "%s: %v", message, err)
	return newError(kind, message, err)
}

// record appends to the audit sink. Audit failures never fail the request.
func (s *BookService) record(ctx context.Context, level audit.Level, format string, args ...interface{}) {
	if err := s.audit.Append(ctx, level, fmt.Sprintf(format, args...)); err != nil {
		log.Printf("Warning: failed to write audit entry: %v", err)
	}
}
