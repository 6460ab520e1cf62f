package services_test

import (
	"context"
	"time"

	"bookstore/internal/audit"
	"bookstore/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockBookRepository is a mock implementation of repositories.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(book)
	if book.ID == "" {
		book.ID = "6c5b0d0e-2f61-4a8e-9d0c-3f0e4b1f2a77"
	}
	return args.Error(0)
}

func (m *MockBookRepository) Find(ctx context.Context, filter models.BookFilter, skip, limit int) ([]models.Book, error) {
	args := m.Called(filter, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) Count(ctx context.Context, filter models.BookFilter) (int64, error) {
	args := m.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) FindOneAndUpdate(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error) {
	args := m.Called(id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheStore is a mock implementation of cache.Store
type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheStore) Delete(ctx context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheStore) Close() error {
	return nil
}

// MockSink is a mock implementation of audit.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Append(ctx context.Context, level audit.Level, message string) error {
	args := m.Called(level, message)
	return args.Error(0)
}
