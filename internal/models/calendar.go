package models

import "time"

// EventKind distinguishes reminder events
type EventKind string

const (
	EventKindDelivery EventKind = "delivery"
	EventKindMealPrep EventKind = "meal_prep"
)

// EventStatusScheduled is the status of every freshly appended reminder.
const EventStatusScheduled = "scheduled"

// ReminderEvent is a calendar reminder derived from an order or a meal plan
type ReminderEvent struct {
	EventID         string     `json:"event_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	ReminderTime    *time.Time `json:"reminder_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	Kind            EventKind  `json:"type"`
	Status          string     `json:"status"`
}
