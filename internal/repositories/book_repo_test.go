package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func newGORMRepo(t *testing.T) repositories.BookRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Book{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMBookRepository(db)
}

func newMockRepo(t *testing.T) repositories.BookRepository {
	return repositories.NewMockBookRepository()
}

// forEachRepo runs fn against every BookRepository implementation.
func forEachRepo(t *testing.T, fn func(t *testing.T, repo repositories.BookRepository)) {
	impls := map[string]func(*testing.T) repositories.BookRepository{
		"gorm":   newGORMRepo,
		"memory": newMockRepo,
	}
	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			fn(t, newRepo(t))
		})
	}
}

func seed(t *testing.T, repo repositories.BookRepository) []models.Book {
	t.Helper()
	books := []models.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 12.5},
		{Title: "The Silmarillion", Author: "J.R.R. Tolkien", Price: 20, InStock: boolPtr(false)},
		{Title: "Dune", Author: "Frank Herbert", Price: 9.99},
		{Title: "100% Pure_Fiction", Author: "Anon", Price: 1},
	}
	for i := range books {
		require.NoError(t, repo.Create(context.Background(), &books[i]))
		// keep created_at strictly increasing
		time.Sleep(2 * time.Millisecond)
	}
	return books
}

func titles(books []models.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestCreate_AssignsIDAndDefaults(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		book := &models.Book{Title: "Emma", Author: "Jane Austen", Price: 0}
		require.NoError(t, repo.Create(ctx, book))

		assert.Len(t, book.ID, 36)
		require.NotNil(t, book.InStock)
		assert.True(t, *book.InStock)

		got, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Emma", got.Title)
		assert.Equal(t, 0.0, got.Price)
		require.NotNil(t, got.InStock)
		assert.True(t, *got.InStock)
	})
}

func TestCreate_Duplicate(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		book := &models.Book{Title: "Emma", Author: "Jane Austen", Price: 3}
		require.NoError(t, repo.Create(ctx, book))

		again := &models.Book{ID: book.ID, Title: "Emma", Author: "Jane Austen", Price: 3}
		assert.ErrorIs(t, repo.Create(ctx, again), repositories.ErrDuplicate)
	})
}

func TestFind_Filters(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		seed(t, repo)

		tests := []struct {
			name   string
			filter models.BookFilter
			want   []string
		}{
			{"no filter", models.BookFilter{}, []string{"The Hobbit", "The Silmarillion", "Dune", "100% Pure_Fiction"}},
			{"author substring any case", models.BookFilter{Author: strPtr("TOLKIEN")}, []string{"The Hobbit", "The Silmarillion"}},
			{"title substring", models.BookFilter{Title: strPtr("un")}, []string{"Dune"}},
			{"literal percent", models.BookFilter{Title: strPtr("100%")}, []string{"100% Pure_Fiction"}},
			{"literal underscore", models.BookFilter{Title: strPtr("e_f")}, []string{"100% Pure_Fiction"}},
			{"exact price", models.BookFilter{Price: floatPtr(9.99)}, []string{"Dune"}},
			{"out of stock", models.BookFilter{InStock: boolPtr(false)}, []string{"The Silmarillion"}},
			{"combined", models.BookFilter{Author: strPtr("tolkien"), InStock: boolPtr(true)}, []string{"The Hobbit"}},
			{"no match", models.BookFilter{Title: strPtr("zzz")}, []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				books, err := repo.Find(ctx, tt.filter, 0, 10)
				require.NoError(t, err)
				assert.Equal(t, tt.want, titles(books))

				total, err := repo.Count(ctx, tt.filter)
				require.NoError(t, err)
				assert.EqualValues(t, len(tt.want), total)
			})
		}
	})
}

func TestFind_FoldsNonASCIICase(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		book := &models.Book{Title: "Élan Vital", Author: "Ørjan ÅSTRÖM", Price: 4}
		require.NoError(t, repo.Create(ctx, book))
		require.NoError(t, repo.Create(ctx, &models.Book{Title: "Plain", Author: "Nobody", Price: 4}))

		for _, filter := range []models.BookFilter{
			{Title: strPtr("élan")},
			{Title: strPtr("ÉLAN")},
			{Author: strPtr("åström")},
		} {
			books, err := repo.Find(ctx, filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"Élan Vital"}, titles(books))
		}

		_, err := repo.FindOneAndUpdate(ctx, book.ID, models.BookChanges{Title: strPtr("Über Alles")})
		require.NoError(t, err)

		books, err := repo.Find(ctx, models.BookFilter{Title: strPtr("über")}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Über Alles"}, titles(books))

		total, err := repo.Count(ctx, models.BookFilter{Title: strPtr("élan")})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})
}

func TestFind_Pagination(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		seed(t, repo)

		page, err := repo.Find(ctx, models.BookFilter{}, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"The Silmarillion", "Dune"}, titles(page))

		page, err = repo.Find(ctx, models.BookFilter{}, 4, 2)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

func TestFindByID_NotFound(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		_, err := repo.FindByID(context.Background(), "0b6f3c1e-8a52-4d6f-9e0a-7c2d5b4a1f90")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestFindOneAndUpdate(t *testing.T) {
	published := time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC)

	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()

		t.Run("merge keeps absent fields", func(t *testing.T) {
			book := &models.Book{Title: "A", Author: "B", Genre: "G", Price: 10}
			require.NoError(t, repo.Create(ctx, book))

			updated, err := repo.FindOneAndUpdate(ctx, book.ID, models.BookChanges{
				Price:         floatPtr(20),
				PublishedDate: &published,
			})
			require.NoError(t, err)
			assert.Equal(t, "A", updated.Title)
			assert.Equal(t, "B", updated.Author)
			assert.Equal(t, "G", updated.Genre)
			assert.Equal(t, 20.0, updated.Price)
			require.NotNil(t, updated.PublishedDate)
			assert.True(t, published.Equal(*updated.PublishedDate))
		})

		t.Run("replace clears absent fields", func(t *testing.T) {
			book := &models.Book{Title: "A", Author: "B", Genre: "G", Price: 10}
			require.NoError(t, repo.Create(ctx, book))

			updated, err := repo.FindOneAndUpdate(ctx, book.ID, models.BookChanges{
				Price:   floatPtr(20),
				Replace: true,
			})
			require.NoError(t, err)
			assert.Empty(t, updated.Title)
			assert.Empty(t, updated.Author)
			assert.Empty(t, updated.Genre)
			assert.Equal(t, 20.0, updated.Price)
			assert.Nil(t, updated.InStock)
		})

		t.Run("flag can be cleared to false", func(t *testing.T) {
			book := &models.Book{Title: "A", Author: "B", Price: 10}
			require.NoError(t, repo.Create(ctx, book))

			updated, err := repo.FindOneAndUpdate(ctx, book.ID, models.BookChanges{InStock: boolPtr(false)})
			require.NoError(t, err)
			require.NotNil(t, updated.InStock)
			assert.False(t, *updated.InStock)
		})

		t.Run("unknown id", func(t *testing.T) {
			_, err := repo.FindOneAndUpdate(ctx, "0b6f3c1e-8a52-4d6f-9e0a-7c2d5b4a1f90", models.BookChanges{Price: floatPtr(1)})
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			_, err = repo.FindOneAndUpdate(ctx, "0b6f3c1e-8a52-4d6f-9e0a-7c2d5b4a1f90", models.BookChanges{})
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	})
}

func TestDeleteByID(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.BookRepository) {
		ctx := context.Background()
		books := seed(t, repo)

		deleted, err := repo.DeleteByID(ctx, books[0].ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		deleted, err = repo.DeleteByID(ctx, books[0].ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, deleted)

		_, err = repo.FindByID(ctx, books[0].ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		total, err := repo.Count(ctx, models.BookFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})
}
