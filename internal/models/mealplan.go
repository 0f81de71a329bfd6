package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlanSource records which generator produced a meal plan
type PlanSource string

const (
	PlanSourceLLM      PlanSource = "llm"
	PlanSourceFallback PlanSource = "fallback"
)

const dayKeyPrefix = "day_"

// Meals holds the three meals planned for one day
type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// MealPlan is the output of meal planning: day-keyed meals, the gap list
// of groceries to buy and advisory notes.
type MealPlan struct {
	Days        map[string]Meals `json:"meal_plan"`
	GroceryList []GapItem        `json:"grocery_list"`
	Notes       []string         `json:"notes"`
	Source      PlanSource       `json:"source"`
}

// DayKey returns the plan key for the given 1-based day index.
func DayKey(index int) string {
	return fmt.Sprintf("%s%d", dayKeyPrefix, index)
}

// ParseDayKey extracts the 1-based day index from a "day_<n>" key.
func ParseDayKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, dayKeyPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || strconv.Itoa(n) != rest {
		return 0, false
	}
	return n, true
}

// DayKeys returns the plan's keys with well-formed day keys first, in day
// order, followed by any malformed keys in lexical order.
func (p *MealPlan) DayKeys() []string {
	keys := make([]string, 0, len(p.Days))
	for k := range p.Days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aok := ParseDayKey(keys[i])
		b, bok := ParseDayKey(keys[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
