// Package planner turns an inventory snapshot into a day-by-day meal plan
// and a grocery gap list.
package planner

import (
	"context"
	"log"

	"concierge/internal/models"
)

// DefaultDays is the planning horizon used when none is given.
const DefaultDays = 7

// Planner modes reported in system status
const (
	ModeOperational = "operational"
	ModeMock        = "mock_mode"
)

// Generator produces a meal plan from an inventory snapshot
type Generator interface {
	Generate(ctx context.Context, inventory []models.InventoryLine, days int, preferences []string) (*models.MealPlan, error)
}

// Planner tries the live generator when one is configured and falls back to
// the deterministic plan on any failure.
type Planner struct {
	live     Generator
	fallback Generator
	logger   *log.Logger
}

// Option configures a Planner
type Option func(*Planner)

// WithLogger overrides the logger
func WithLogger(l *log.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New creates a planner. A nil live generator means no credential is
// configured and every plan comes from the fallback.
func New(live Generator, opts ...Option) *Planner {
	p := &Planner{
		live:     live,
		fallback: FallbackGenerator{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.live == nil {
		p.logger.Printf("OpenAI API key not provided. Using mock responses.")
	}
	return p
}

// Mode reports whether plans come from the live generator
func (p *Planner) Mode() string {
	if p.live == nil {
		return ModeMock
	}
	return ModeOperational
}

// Generate returns a meal plan. It never fails: live errors are logged and
// answered with the fallback plan.
func (p *Planner) Generate(ctx context.Context, inventory []models.InventoryLine, days int, preferences []string) *models.MealPlan {
	if days <= 0 {
		days = DefaultDays
	}

	if p.live != nil {
		plan, err := p.live.Generate(ctx, inventory, days, preferences)
		if err == nil && plan != nil {
			p.logger.Printf("Generated %d-day meal plan with %d shopping items", days, len(plan.GroceryList))
			return plan
		}
		if err != nil {
			p.logger.Printf("Error generating meal plan: %v", err)
		}
	}

	plan, _ := p.fallback.Generate(ctx, inventory, days, preferences)
	return plan
}
