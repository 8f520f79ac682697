package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// DescriptionPlaceholder is what the API stores for an empty description.
const DescriptionPlaceholder = "-"

type (
	TxType string

	Date struct {
		time.Time
	}

	Category struct {
		ID   int64
		Name string
		Icon string
	}

	Transaction struct {
		ID          int64
		Type        TxType
		Amount      int64 // smallest currency unit
		Description string
		Category    Category
		Date        string // date-like string as sent by the API
		CreatedAt   string
		UpdatedAt   string
	}

	// TransactionPage is one slice of a date-filtered transaction listing.
	TransactionPage struct {
		Items []Transaction
		Total int
	}

	Summary struct {
		Income  int64
		Expense int64
		Balance int64
	}

	DayPoint struct {
		Date    string
		Income  int64
		Expense int64
	}

	CategoryShare struct {
		Name       string
		Icon       string
		Percentage float64
	}

	Analytics struct {
		ByDay      []DayPoint
		ByCategory []CategoryShare
	}

	// Meta holds the overall transaction date bounds; both are optional.
	Meta struct {
		OldestDate string
		NewestDate string
	}

	// TransactionInput is the body of a create or update call.
	TransactionInput struct {
		Amount      string // ungrouped digit string
		Description string
		CategoryID  int64
		Type        TxType
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrIncompleteRange = errors.New("date range requires start and end")
	ErrInvertedRange   = errors.New("date range start is after end")
)

// ValidationError reports a missing or invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrAmountRequired   = &ValidationError{Field: "amount", Message: "Nominal wajib diisi."}
	ErrCategoryRequired = &ValidationError{Field: "category", Message: "Kategori wajib dipilih."}
)

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (t TxType) String() string {
	return string(t)
}

// Other returns the opposite type.
func (t TxType) Other() TxType {
	if t == Income {
		return Expense
	}
	return Income
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate reads the leading YYYY-MM-DD of s.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// NormalizeDescription trims s and substitutes the placeholder when empty.
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DescriptionPlaceholder
	}
	return s
}

// EditableDescription is the form value for a stored description: the
// placeholder becomes an empty field.
func EditableDescription(s string) string {
	if s == DescriptionPlaceholder {
		return ""
	}
	return s
}

// Validate checks the amount before the category; the first failure wins.
func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.Amount) == "" {
		return ErrAmountRequired
	}
	if in.CategoryID <= 0 {
		return ErrCategoryRequired
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	return nil
}
