package calendar

import (
	"io"
	"log"
	"testing"
	"time"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.July, 20, 9, 30, 0, 0, time.UTC)

func newTestScheduler() *Scheduler {
	return NewScheduler(func() time.Time { return fixedNow }, log.New(io.Discard, "", 0))
}

func planOf(days int) *models.MealPlan {
	plan := &models.MealPlan{Days: make(map[string]models.Meals)}
	for d := 1; d <= days; d++ {
		plan.Days[models.DayKey(d)] = models.Meals{
			Breakfast: "Toast " + models.DayKey(d),
			Lunch:     "Salad",
			Dinner:    "Soup " + models.DayKey(d),
		}
	}
	return plan
}

func testOrder(delivery time.Time) *models.Order {
	return &models.Order{
		OrderID:           "ORD_20250720_093000",
		Store:             "Mock Grocery Store",
		Items:             make([]models.ResolvedLine, 4),
		Total:             decimal.RequireFromString("31.82"),
		EstimatedDelivery: delivery,
	}
}

func TestScheduleDelivery(t *testing.T) {
	s := newTestScheduler()
	delivery := time.Date(2025, time.July, 21, 16, 0, 0, 0, time.UTC)

	event := s.ScheduleDelivery(testOrder(delivery))

	assert.Equal(t, "DELIVERY_ORD_20250720_093000", event.EventID)
	assert.Equal(t, "Grocery Delivery Arriving - Order ORD_20250720_093000", event.Title)
	assert.Equal(t, "Grocery delivery from Mock Grocery Store\nTotal: $31.82\nItems: 4 items", event.Description)
	assert.Equal(t, delivery, event.StartTime)
	require.NotNil(t, event.ReminderTime)
	assert.Equal(t, delivery.Add(-30*time.Minute), *event.ReminderTime)
	assert.Equal(t, models.EventKindDelivery, event.Kind)
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.Equal(t, 1, s.Len())
}

func TestScheduleMealPrep(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleDelivery(testOrder(fixedNow.Add(2 * time.Hour)))

	events := s.ScheduleMealPrep(planOf(3))

	require.Len(t, events, 3)
	assert.Equal(t, 4, s.Len())
	for i, event := range events {
		day := i + 1
		assert.Equal(t, "MEAL_PREP_"+models.DayKey(day), event.EventID)
		assert.Equal(t, time.Date(2025, time.July, 20+i, 18, 0, 0, 0, time.UTC), event.StartTime)
		assert.Equal(t, 60, event.DurationMinutes)
		assert.Equal(t, models.EventKindMealPrep, event.Kind)
		assert.Nil(t, event.ReminderTime)
	}
	assert.Equal(t, "Meal Prep - Day 2", events[1].Title)
	assert.Equal(t, "Tonight's dinner: Soup day_2\nTomorrow's breakfast: Toast day_2", events[1].Description)
	assert.Equal(t, events, s.Events()[1:])
}

func TestScheduleMealPrep_SkipsMalformedKeys(t *testing.T) {
	s := newTestScheduler()
	plan := planOf(2)
	plan.Days["weekend"] = models.Meals{Dinner: "Pizza"}
	plan.Days["day_x"] = models.Meals{}

	events := s.ScheduleMealPrep(plan)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, s.Len())
}

func TestScheduleMealPrep_EmptyMealsAreTBD(t *testing.T) {
	s := newTestScheduler()
	events := s.ScheduleMealPrep(&models.MealPlan{Days: map[string]models.Meals{"day_1": {}}})
	require.Len(t, events, 1)
	assert.Equal(t, "Tonight's dinner: TBD\nTomorrow's breakfast: TBD", events[0].Description)
}

func TestUpcoming_WindowAndOrder(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleMealPrep(planOf(10))
	late := s.ScheduleDelivery(testOrder(fixedNow.Add(26 * time.Hour)))
	s.ScheduleDelivery(testOrder(time.Date(2025, time.July, 20, 18, 0, 0, 0, time.UTC)))

	upcoming := s.Upcoming(7)

	cutoff := fixedNow.AddDate(0, 0, 7)
	for i, event := range upcoming {
		assert.False(t, event.StartTime.After(cutoff), event.EventID)
		if i > 0 {
			assert.False(t, event.StartTime.Before(upcoming[i-1].StartTime))
		}
	}

	// day_8 starts July 27 18:00, past the July 27 09:30 cutoff
	assert.Len(t, upcoming, 7+2)

	// the tie at July 20 18:00 keeps insertion order: meal prep first
	assert.Equal(t, "MEAL_PREP_day_1", upcoming[0].EventID)
	assert.Equal(t, models.EventKindDelivery, upcoming[1].Kind)
	assert.Contains(t, upcoming, late)
}

func TestUpcoming_LogNeverShrinks(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleMealPrep(planOf(3))

	assert.Len(t, s.Upcoming(0), 0)
	assert.Len(t, s.Upcoming(1), 1)
	assert.Equal(t, 3, s.Len())
}
