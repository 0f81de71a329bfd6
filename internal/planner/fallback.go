package planner

import (
	"context"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
)

// Fixed fallback meals
const (
	FallbackBreakfast = "Scrambled eggs with cheese"
	FallbackLunch     = "Chicken and vegetable stir-fry"
	FallbackDinner    = "Grilled salmon with rice and broccoli"
)

// FallbackGenerator produces the same plan for the same horizon without any
// external calls.
type FallbackGenerator struct{}

var _ Generator = FallbackGenerator{}

// Generate implements Generator. It never fails.
func (FallbackGenerator) Generate(_ context.Context, _ []models.InventoryLine, days int, _ []string) (*models.MealPlan, error) {
	return FallbackPlan(days), nil
}

// FallbackPlan builds the deterministic plan for the given horizon
func FallbackPlan(days int) *models.MealPlan {
	if days <= 0 {
		days = DefaultDays
	}

	plan := &models.MealPlan{
		Days: make(map[string]models.Meals, days),
		GroceryList: []models.GapItem{
			staple("Spinach", "bag", models.CategoryVegetable, "2.99"),
			staple("Salmon", "lb", models.CategorySeafood, "12.99"),
			staple("Pasta", "box", models.CategoryGrain, "1.49"),
			staple("Olive Oil", "bottle", models.CategoryCondiment, "4.99"),
		},
		Notes: []string{
			"This is a mock meal plan. Connect OpenAI API for personalized planning.",
			"Use ingredients expiring soon first.",
			"Consider batch cooking for efficiency.",
		},
		Source: models.PlanSourceFallback,
	}

	for day := 1; day <= days; day++ {
		plan.Days[models.DayKey(day)] = models.Meals{
			Breakfast: FallbackBreakfast,
			Lunch:     FallbackLunch,
			Dinner:    FallbackDinner,
		}
	}

	return plan
}

func staple(name, unit, category, price string) models.GapItem {
	return models.GapItem{
		Name:           name,
		Quantity:       1,
		Unit:           unit,
		Category:       category,
		EstimatedPrice: decimal.RequireFromString(price),
	}
}
