package models

import "time"

// Book represents a book in the catalogue.
type Book struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Genre         string     `json:"genre,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	Price         float64    `json:"price"`
	InStock       *bool      `json:"inStock,omitempty" gorm:"default:true"`
	CreatedAt     time.Time  `json:"-"`

	// Lowercased copies of Title and Author that filters match against.
	TitleSearch  string `json:"-" gorm:"index"`
	AuthorSearch string `json:"-" gorm:"index"`
}

// BookFilter narrows a book listing. Nil fields impose no constraint.
type BookFilter struct {
	Title   *string
	Author  *string
	Price   *float64
	InStock *bool
}

// IsEmpty reports whether the filter matches every book.
func (f BookFilter) IsEmpty() bool {
	return f.Title == nil && f.Author == nil && f.Price == nil && f.InStock == nil
}

// BookChanges carries the field assignments applied by an update.
// When Replace is set, nil fields are cleared instead of left untouched.
type BookChanges struct {
	Title         *string
	Author        *string
	Genre         *string
	PublishedDate *time.Time
	Price         *float64
	InStock       *bool
	Replace       bool
}
