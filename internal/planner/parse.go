package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
)

// ErrMalformedPlan is returned when generator output does not have the
// expected meal plan shape.
var ErrMalformedPlan = errors.New("malformed meal plan")

type rawMeals struct {
	Breakfast *string `json:"breakfast"`
	Lunch     *string `json:"lunch"`
	Dinner    *string `json:"dinner"`
}

type rawGroceryItem struct {
	Name           string           `json:"name"`
	Quantity       json.Number      `json:"quantity"`
	Unit           string           `json:"unit"`
	Category       string           `json:"category"`
	EstimatedPrice *decimal.Decimal `json:"estimated_price"`
	StoreItemID    string           `json:"store_item_id"`
	Reason         string           `json:"reason"`
}

type rawPlan struct {
	MealPlan    map[string]rawMeals `json:"meal_plan"`
	GroceryList []rawGroceryItem    `json:"grocery_list"`
	Notes       []string            `json:"notes"`
}

// ParsePlan validates untrusted generator output against the meal plan
// shape for a days-long horizon.
func ParsePlan(content string, days int) (*models.MealPlan, error) {
	body, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var raw rawPlan
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}

	if len(raw.MealPlan) != days {
		return nil, fmt.Errorf("%w: expected %d days, got %d", ErrMalformedPlan, days, len(raw.MealPlan))
	}

	plan := &models.MealPlan{
		Days:        make(map[string]models.Meals, days),
		GroceryList: make([]models.GapItem, 0, len(raw.GroceryList)),
		Notes:       make([]string, 0, len(raw.Notes)),
	}

	for day := 1; day <= days; day++ {
		key := models.DayKey(day)
		meals, ok := raw.MealPlan[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedPlan, key)
		}
		if meals.Breakfast == nil || meals.Lunch == nil || meals.Dinner == nil {
			return nil, fmt.Errorf("%w: %s is missing a meal", ErrMalformedPlan, key)
		}
		plan.Days[key] = models.Meals{
			Breakfast: *meals.Breakfast,
			Lunch:     *meals.Lunch,
			Dinner:    *meals.Dinner,
		}
	}

	for i, item := range raw.GroceryList {
		gap, err := item.toGapItem()
		if err != nil {
			return nil, fmt.Errorf("%w: grocery item %d: %v", ErrMalformedPlan, i, err)
		}
		plan.GroceryList = append(plan.GroceryList, gap)
	}

	for _, note := range raw.Notes {
		if note = strings.TrimSpace(note); note != "" {
			plan.Notes = append(plan.Notes, note)
		}
	}

	return plan, nil
}

func (r rawGroceryItem) toGapItem() (models.GapItem, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return models.GapItem{}, errors.New("missing name")
	}

	quantity, err := r.Quantity.Int64()
	if err != nil || quantity < 1 {
		return models.GapItem{}, fmt.Errorf("%s: invalid quantity %q", name, r.Quantity)
	}

	price := decimal.Zero
	if r.EstimatedPrice != nil {
		if r.EstimatedPrice.IsNegative() {
			return models.GapItem{}, fmt.Errorf("%s: negative price", name)
		}
		price = *r.EstimatedPrice
	}

	category := r.Category
	if category == "" {
		category = models.CategoryMisc
	}

	return models.GapItem{
		Name:           name,
		Quantity:       int(quantity),
		Unit:           r.Unit,
		Category:       category,
		EstimatedPrice: price,
		StoreItemID:    r.StoreItemID,
		Reason:         r.Reason,
	}, nil
}

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating markdown code fences and surrounding prose.
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrMalformedPlan)
	}
	return content[start : end+1], nil
}
