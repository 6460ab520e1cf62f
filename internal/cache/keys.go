package cache

import (
	"strconv"
	"strings"

	"bookstore/internal/models"

	"github.com/cespare/xxhash/v2"
)

// ListPrefix namespaces the keys of cached book listings.
const ListPrefix = "books"

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// ListKey builds the key of a cached listing page. Equal filters always
// produce equal keys: fields are written in a fixed order and absent
// fields are skipped.
func ListKey(filter models.BookFilter, page, limit int) string {
	canonical := CanonicalFilter(filter)
	return strings.Join([]string{
		ListPrefix,
		strconv.FormatUint(xxhash.Sum64String(canonical), 16),
		strconv.Itoa(page),
		strconv.Itoa(limit),
	}, KeySeparator)
}

// BookKey builds the key of a single cached book.
func BookKey(id string) string {
	return id
}

// CanonicalFilter renders filter as a stable string, e.g.
// `{"author":"tolkien","inStock":true}`. Text terms are lowercased since
// they match case-insensitively.
func CanonicalFilter(filter models.BookFilter) string {
	if filter.IsEmpty() {
		return "{}"
	}
	parts := make([]string, 0, 4)
	if filter.Author != nil {
		parts = append(parts, `"author":`+strconv.Quote(strings.ToLower(*filter.Author)))
	}
	if filter.InStock != nil {
		parts = append(parts, `"inStock":`+strconv.FormatBool(*filter.InStock))
	}
	if filter.Price != nil {
		parts = append(parts, `"price":`+strconv.FormatFloat(*filter.Price, 'g', -1, 64))
	}
	if filter.Title != nil {
		parts = append(parts, `"title":`+strconv.Quote(strings.ToLower(*filter.Title)))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
