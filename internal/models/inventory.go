package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used in the persisted inventory.
const DateLayout = "2006-01-02"

// Inventory categories used by the default stock and the fallback plan
const (
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategoryVegetable = "vegetable"
	CategoryGrain     = "grain"
	CategorySeafood   = "seafood"
	CategoryCondiment = "condiment"
	CategoryMisc      = "misc"
)

// Date is a calendar date without a time of day. It is stored at midnight UTC
// and serialized as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date from its calendar parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (or earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a quoted string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// InventoryLine is one stocked item in the fridge
type InventoryLine struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
	ExpiryDate Date   `json:"expiry_date"`
	Category   string `json:"category"`
}

// Key returns the case-insensitive identity of the line.
func (l InventoryLine) Key() string {
	return NameKey(l.Name)
}

// NameKey normalizes a product or item name for case-insensitive matching.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
