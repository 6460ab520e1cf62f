package services

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/spf13/cast"
)

// BookInput is the request body of create and update.
// Nil fields were absent from the request.
type BookInput struct {
	Title         *string  `json:"title" validate:"required,nonblank"`
	Author        *string  `json:"author" validate:"required,nonblank"`
	Genre         *string  `json:"genre"`
	PublishedDate *string  `json:"publishedDate"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	InStock       *bool    `json:"inStock"`
}

// ListParams are the raw query parameters of a listing request.
// Empty strings count as absent.
type ListParams struct {
	Title   string
	Author  string
	Price   string
	InStock string
	Page    string
	Lim     string
}

// ListQuery is a parsed, validated listing request.
type ListQuery struct {
	Filter models.BookFilter
	Page   int
	Limit  int
}

// Skip is the number of matching books before the requested page.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// nonblank rejects strings that are empty after trimming.
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var fieldMessages = map[string]string{
	"title.required":  "Title is required",
	"title.nonblank":  "Title is required",
	"author.required": "Author is required",
	"author.nonblank": "Author is required",
	"price.required":  "Price is required",
	"price.gte":       "Price cannot be negative",
}

func (s *BookService) validateCreate(in BookInput) (*time.Time, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	return parsePublishedDate(in.PublishedDate)
}

func (s *BookService) validateUpdate(in BookInput) (*time.Time, error) {
	if in.Price != nil {
		if err := s.validate.Var(*in.Price, "gte=0"); err != nil {
			return nil, newError(KindInvalidInput, "Price cannot be negative", nil)
		}
	}
	return parsePublishedDate(in.PublishedDate)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newError(KindInvalidInput, "Invalid request body", err)
	}
	first := verrs[0]
	if msg, ok := fieldMessages[first.Field()+"."+first.Tag()]; ok {
		return newError(KindInvalidInput, msg, nil)
	}
	return newError(KindInvalidInput, "Invalid value for "+first.Field(), nil)
}

// Dates without a zone are read as UTC.
var dateParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats:  now.TimeFormats,
}

func parsePublishedDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := dateParser.With(time.Now().UTC()).Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, newError(KindInvalidDate, "Invalid publishedDate", err)
	}
	t = t.UTC()
	return &t, nil
}

// DecodeError converts a request body decoding failure into an *Error.
// A JSON value of the wrong type is reported against its field.
func DecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "inStock":
			return newError(KindInvalidInput, "InStock must be a boolean", err)
		case "price":
			return newError(KindInvalidInput, "Price must be a valid number", err)
		case "publishedDate":
			return newError(KindInvalidDate, "Invalid publishedDate", err)
		case "title", "author", "genre":
			return newError(KindInvalidInput, strings.ToUpper(typeErr.Field[:1])+typeErr.Field[1:]+" must be a string", err)
		}
	}
	return newError(KindInvalidInput, "Invalid request body", err)
}

// ValidateID rejects identifiers that are not UUIDs and returns the
// canonical lowercase hyphenated form of those that are.
func ValidateID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", newError(KindInvalidInput, "Invalid book ID", err)
	}
	return parsed.String(), nil
}

// ParseListQuery turns raw query parameters into a ListQuery.
func ParseListQuery(p ListParams, defaultLimit int) (ListQuery, error) {
	q := ListQuery{Page: 1, Limit: defaultLimit}

	if p.Title != "" {
		title := p.Title
		q.Filter.Title = &title
	}
	if p.Author != "" {
		author := p.Author
		q.Filter.Author = &author
	}
	if p.Price != "" {
		price, err := cast.ToFloat64E(strings.TrimSpace(p.Price))
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return ListQuery{}, newError(KindInvalidInput, "Price must be a valid number", err)
		}
		if price < 0 {
			return ListQuery{}, newError(KindInvalidInput, "Price cannot be negative", nil)
		}
		q.Filter.Price = &price
	}
	if p.InStock != "" {
		var inStock bool
		switch p.InStock {
		case "true":
			inStock = true
		case "false":
			inStock = false
		default:
			return ListQuery{}, newError(KindInvalidInput, "InStock must be true or false", nil)
		}
		q.Filter.InStock = &inStock
	}

	var err error
	if q.Page, err = positiveInt(p.Page, q.Page); err != nil {
		return ListQuery{}, newError(KindInvalidInput, "Page must be a positive integer", err)
	}
	if q.Limit, err = positiveInt(p.Lim, q.Limit); err != nil {
		return ListQuery{}, newError(KindInvalidInput, "Lim must be a positive integer", err)
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return ListQuery{}, newError(KindInvalidInput, "Page is out of range", nil)
	}
	return q, nil
}

var errNotPositive = errors.New("must be greater than 0")

func positiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errNotPositive
	}
	return n, nil
}
