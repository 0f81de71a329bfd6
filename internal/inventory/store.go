// Package inventory keeps the fridge stock and persists it to a backing
// document after every mutation.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"concierge/internal/models"
)

var (
	// ErrNotFound is returned when no line matches the requested name.
	ErrNotFound = errors.New("item not found in inventory")
	// ErrInsufficientQuantity is returned when removing more than is on hand.
	ErrInsufficientQuantity = errors.New("not enough quantity in inventory")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Document is the read/write medium the store persists to
type Document interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Store owns the ordered list of stocked lines
type Store struct {
	doc    Document
	items  []models.InventoryLine
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for expiry queries
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store bound to doc. Call Load to populate it.
func NewStore(doc Document, opts ...Option) *Store {
	s := &Store{
		doc:    doc,
		items:  make([]models.InventoryLine, 0),
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads it from doc
func Open(doc Document, opts ...Option) *Store {
	s := NewStore(doc, opts...)
	s.Load()
	return s
}

// Load reads the backing document. A missing or unreadable document is
// replaced with the default stock, which is written back immediately.
func (s *Store) Load() {
	data, err := s.doc.Read()
	var items []models.InventoryLine
	if err == nil {
		items, err = decode(data)
	}
	if err == nil {
		s.items = items
		s.logger.Printf("Loaded %d items from inventory", len(items))
		return
	}

	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Printf("No inventory found, creating default inventory")
	} else {
		s.logger.Printf("Error loading inventory: %v", err)
	}
	s.items = DefaultItems()
	s.save()
}

func decode(data []byte) ([]models.InventoryLine, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("inventory document is null")
	}
	return validate(records)
}

// record is the persisted form of a line. Pointer fields tell an absent
// value apart from a zero one.
type record struct {
	Name       string       `json:"name"`
	Quantity   *int         `json:"quantity"`
	Unit       string       `json:"unit"`
	ExpiryDate *models.Date `json:"expiry_date"`
	Category   string       `json:"category"`
}

// validate rejects incomplete or negative records and drops depleted ones.
func validate(records []record) ([]models.InventoryLine, error) {
	out := make([]models.InventoryLine, 0, len(records))
	for i, r := range records {
		switch {
		case r.Name == "":
			return nil, fmt.Errorf("item %d has no name", i)
		case r.Quantity == nil:
			return nil, fmt.Errorf("item %q has no quantity", r.Name)
		case *r.Quantity < 0:
			return nil, fmt.Errorf("item %q has negative quantity %d", r.Name, *r.Quantity)
		case r.ExpiryDate == nil || r.ExpiryDate.IsZero():
			return nil, fmt.Errorf("item %q has no expiry date", r.Name)
		}
		if *r.Quantity == 0 {
			continue
		}
		item := models.InventoryLine{
			Name:       r.Name,
			Quantity:   *r.Quantity,
			Unit:       r.Unit,
			ExpiryDate: *r.ExpiryDate,
			Category:   r.Category,
		}
		if item.Category == "" {
			item.Category = models.CategoryMisc
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) save() {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		s.logger.Printf("Error encoding inventory: %v", err)
		return
	}
	if err := s.doc.Write(data); err != nil {
		s.logger.Printf("Error saving inventory: %v", err)
		return
	}
	s.logger.Printf("Saved %d items to inventory", len(s.items))
}

// Items returns a copy of all lines in insertion order
func (s *Store) Items() []models.InventoryLine {
	out := make([]models.InventoryLine, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of stocked lines
func (s *Store) Len() int {
	return len(s.items)
}

// ExpiringWithin returns lines whose expiry date is on or before today plus days
func (s *Store) ExpiringWithin(days int) []models.InventoryLine {
	cutoff := models.DateOf(s.now()).AddDays(days)
	return s.filter(func(l models.InventoryLine) bool {
		return !l.ExpiryDate.After(cutoff)
	})
}

// LowStock returns lines whose quantity is at or below threshold
func (s *Store) LowStock(threshold int) []models.InventoryLine {
	return s.filter(func(l models.InventoryLine) bool {
		return l.Quantity <= threshold
	})
}

func (s *Store) filter(keep func(models.InventoryLine) bool) []models.InventoryLine {
	out := make([]models.InventoryLine, 0)
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Remove takes quantity of the named item out of the fridge. The store is
// left unchanged when the item is missing or short.
func (s *Store) Remove(name string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("remove %d %s: %w", quantity, name, ErrInvalidQuantity)
	}
	key := models.NameKey(name)
	for i := range s.items {
		if s.items[i].Key() != key {
			continue
		}
		if s.items[i].Quantity < quantity {
			s.logger.Printf("Not enough %s in inventory", name)
			return fmt.Errorf("remove %d %s: %w", quantity, name, ErrInsufficientQuantity)
		}
		s.items[i].Quantity -= quantity
		if s.items[i].Quantity == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.save()
		return nil
	}
	s.logger.Printf("%s not found in inventory", name)
	return fmt.Errorf("remove %s: %w", name, ErrNotFound)
}

// Add merges line into an existing case-insensitive match or appends it
func (s *Store) Add(line models.InventoryLine) error {
	if line.Quantity < 1 {
		return fmt.Errorf("add %d %s: %w", line.Quantity, line.Name, ErrInvalidQuantity)
	}
	if line.Category == "" {
		line.Category = models.CategoryMisc
	}
	key := line.Key()
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity += line.Quantity
			s.save()
			return nil
		}
	}
	s.items = append(s.items, line)
	s.save()
	return nil
}

// CategoryGroup is the set of lines that share a category
type CategoryGroup struct {
	Category string                 `json:"category"`
	Items    []models.InventoryLine `json:"items"`
}

// SummaryByCategory groups lines by category. Categories appear in the order
// they were first seen and lines keep their insertion order.
func (s *Store) SummaryByCategory() []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)
	for _, item := range s.items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Categories lists the distinct categories in first-seen order
func (s *Store) Categories() []string {
	groups := s.SummaryByCategory()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Category
	}
	return out
}
