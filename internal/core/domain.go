package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in storage, the API and exports.
const DateLayout = "2006-01-02"

// MonthLayout is the calendar month key used for monthly bucketing.
const MonthLayout = "2006-01"

const (
	CategoryWater       Category = "air"
	CategoryElectricity Category = "listrik"
	CategorySeed        Category = "bibit"
	CategoryPlastic     Category = "plastik"
	CategoryOther       Category = "lainnya"
)

// UnitPricePerKg is the fixed selling price of produce, in Rupiah per kilogram.
var UnitPricePerKg = decimal.NewFromInt(32000)

// Largest accepted quantity and amount. Both stay below 2^53 so exports and
// spreadsheet cells, which hold float64, show the exact stored value.
var (
	MaxKilograms = decimal.NewFromInt(1_000_000_000)
	MaxRupiah    = decimal.NewFromInt(1_000_000_000_000_000)
)

type (
	// Category classifies a purchase. Values are the lower-case keys stored in the database.
	Category string

	Date struct {
		time.Time
	}

	Sale struct {
		ID        int64
		Date      Date
		Kilograms decimal.Decimal
		Total     decimal.Decimal
	}

	Purchase struct {
		ID       int64
		Date     Date
		Category Category
		Amount   decimal.Decimal
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidCategory = errors.New("invalid category")
)

var validationErrors = []error{
	ErrInvalidDate,
	ErrInvalidAmount,
	ErrNegativeAmount,
	ErrInvalidQuantity,
	ErrInvalidCategory,
}

// IsValidationError reports whether err is caused by bad user input rather than
// a storage or transport failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Categories returns all purchase categories in display order.
func Categories() []Category {
	return []Category{CategoryWater, CategoryElectricity, CategorySeed, CategoryPlastic, CategoryOther}
}

var categoryAliases = map[string]Category{
	"air":         CategoryWater,
	"water":       CategoryWater,
	"listrik":     CategoryElectricity,
	"electricity": CategoryElectricity,
	"bibit":       CategorySeed,
	"seed":        CategorySeed,
	"plastik":     CategoryPlastic,
	"plastic":     CategoryPlastic,
	"lainnya":     CategoryOther,
	"other":       CategoryOther,
}

// ParseCategory accepts the stored key, its display label or the English name,
// case-insensitively.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWater, CategoryElectricity, CategorySeed, CategoryPlastic, CategoryOther:
		return true
	}
	return false
}

// Label returns the capitalized display name, e.g. "Listrik".
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Impossible dates such as 2024-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in UTC.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the calendar month bucket, e.g. "2024-01".
func (d Date) MonthKey() string {
	return d.Format(MonthLayout)
}

// NewSale prices kilograms at UnitPricePerKg.
func NewSale(date Date, kilograms decimal.Decimal) Sale {
	return Sale{
		Date:      date,
		Kilograms: kilograms,
		Total:     kilograms.Mul(UnitPricePerKg),
	}
}

func (s Sale) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if s.Kilograms.IsNegative() {
		return fmt.Errorf("%w: kilograms cannot be negative", ErrInvalidQuantity)
	}
	if s.Kilograms.GreaterThan(MaxKilograms) {
		return fmt.Errorf("%w: kilograms cannot exceed %s", ErrInvalidQuantity, MaxKilograms)
	}
	if s.Total.IsNegative() {
		return ErrNegativeAmount
	}
	if s.Total.GreaterThan(MaxRupiah) {
		return fmt.Errorf("%w: total cannot exceed %s", ErrInvalidAmount, MaxRupiah)
	}
	return nil
}

func (p Purchase) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if p.Amount.GreaterThan(MaxRupiah) {
		return fmt.Errorf("%w: amount cannot exceed %s", ErrInvalidAmount, MaxRupiah)
	}
	return nil
}
