// Package calendar keeps an append-only log of delivery and meal-prep
// reminders.
package calendar

import (
	"fmt"
	"log"
	"sort"
	"time"

	"concierge/internal/models"
)

// Scheduling constants
const (
	DeliveryReminderLead    = 30 * time.Minute
	MealPrepHour            = 18
	MealPrepDurationMinutes = 60
)

// Scheduler derives reminder events and keeps them in insertion order
type Scheduler struct {
	events []models.ReminderEvent
	now    func() time.Time
	logger *log.Logger
}

// NewScheduler creates an empty scheduler. A nil clock uses time.Now.
func NewScheduler(now func() time.Time, logger *log.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		events: make([]models.ReminderEvent, 0),
		now:    now,
		logger: logger,
	}
}

// ScheduleDelivery appends a reminder for the order's delivery window
func (s *Scheduler) ScheduleDelivery(order *models.Order) models.ReminderEvent {
	delivery := order.EstimatedDelivery
	reminder := delivery.Add(-DeliveryReminderLead)

	event := models.ReminderEvent{
		EventID: "DELIVERY_" + order.OrderID,
		Title:   "Grocery Delivery Arriving - Order " + order.OrderID,
		Description: fmt.Sprintf("Grocery delivery from %s\nTotal: $%s\nItems: %d items",
			order.Store, order.Total.StringFixed(2), len(order.Items)),
		StartTime:    delivery,
		ReminderTime: &reminder,
		Kind:         models.EventKindDelivery,
		Status:       models.EventStatusScheduled,
	}

	s.events = append(s.events, event)
	s.logger.Printf("Scheduled delivery reminder for %s", delivery.Format("2006-01-02 15:04"))
	return event
}

// ScheduleMealPrep appends one evening reminder per planned day and returns
// only the events it appended. Keys that are not "day_<n>" are skipped.
func (s *Scheduler) ScheduleMealPrep(plan *models.MealPlan) []models.ReminderEvent {
	now := s.now()
	base := time.Date(now.Year(), now.Month(), now.Day(), MealPrepHour, 0, 0, 0, now.Location())

	events := make([]models.ReminderEvent, 0, len(plan.Days))
	for _, key := range plan.DayKeys() {
		day, ok := models.ParseDayKey(key)
		if !ok {
			s.logger.Printf("Skipping meal prep reminder for unrecognized day key %q", key)
			continue
		}
		meals := plan.Days[key]

		event := models.ReminderEvent{
			EventID: "MEAL_PREP_" + key,
			Title:   fmt.Sprintf("Meal Prep - Day %d", day),
			Description: fmt.Sprintf("Tonight's dinner: %s\nTomorrow's breakfast: %s",
				orTBD(meals.Dinner), orTBD(meals.Breakfast)),
			StartTime:       base.AddDate(0, 0, day-1),
			DurationMinutes: MealPrepDurationMinutes,
			Kind:            models.EventKindMealPrep,
			Status:          models.EventStatusScheduled,
		}
		events = append(events, event)
	}

	s.events = append(s.events, events...)
	s.logger.Printf("Scheduled %d meal prep reminders", len(events))
	return events
}

func orTBD(s string) string {
	if s == "" {
		return "TBD"
	}
	return s
}

// Upcoming returns events starting no later than now plus days, earliest
// first. Events with equal start times keep their insertion order.
func (s *Scheduler) Upcoming(days int) []models.ReminderEvent {
	cutoff := s.now().AddDate(0, 0, days)

	upcoming := make([]models.ReminderEvent, 0)
	for _, event := range s.events {
		if !event.StartTime.After(cutoff) {
			upcoming = append(upcoming, event)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	return upcoming
}

// Events returns a copy of the full log
func (s *Scheduler) Events() []models.ReminderEvent {
	out := make([]models.ReminderEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of logged events
func (s *Scheduler) Len() int {
	return len(s.events)
}
