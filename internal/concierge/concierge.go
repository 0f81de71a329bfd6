// Package concierge composes the inventory, planner, catalog, ordering and
// calendar components into the daily check, plan-and-order and status
// workflows.
package concierge

import (
	"context"
	"fmt"
	"log"
	"time"

	"concierge/internal/calendar"
	"concierge/internal/catalog"
	"concierge/internal/inventory"
	"concierge/internal/models"
	"concierge/internal/monitoring"
	"concierge/internal/ordering"
	"concierge/internal/planner"

	"github.com/shopspring/decimal"
)

// Workflow thresholds
const (
	ExpiryWindowDays   = 3
	LowStockThreshold  = 2
	UpcomingWindowDays = 7
	DeliveryHour       = 16
)

// Workflow names used for monitoring
const (
	WorkflowDailyCheck   = "daily_check"
	WorkflowPlanAndOrder = "plan_and_order"
)

// Component names reported by SystemStatus
const (
	ComponentFridge         = "fridge"
	ComponentMealPlanner    = "meal_planner"
	ComponentGroceryManager = "grocery_manager"
	ComponentCalendar       = "calendar"
)

// DailyCheck is the result of the daily inventory check
type DailyCheck struct {
	Date            string                 `json:"date"`
	ExpiringSoon    []models.InventoryLine `json:"expiring_soon"`
	LowStock        []models.InventoryLine `json:"low_stock"`
	TotalItems      int                    `json:"total_items"`
	Recommendations []string               `json:"recommendations"`
}

// WorkflowResult is the outcome of PlanAndOrder
type WorkflowResult struct {
	MealPlan             *models.MealPlan       `json:"meal_plan"`
	GrocerySearchResults []models.ResolvedLine  `json:"grocery_search_results"`
	TotalEstimatedCost   decimal.Decimal        `json:"total_estimated_cost"`
	Order                *models.Order          `json:"order"`
	OrderError           string                 `json:"order_error,omitempty"`
	CalendarEvents       []models.ReminderEvent `json:"calendar_events"`
}

// FridgeStatus summarizes the inventory for SystemStatus
type FridgeStatus struct {
	TotalItems   int      `json:"total_items"`
	Categories   []string `json:"categories"`
	ExpiringSoon int      `json:"expiring_soon"`
	LowStock     int      `json:"low_stock"`
}

// SystemStatus is a snapshot of the concierge and its components
type SystemStatus struct {
	FridgeStatus   FridgeStatus      `json:"fridge_status"`
	UpcomingEvents int               `json:"upcoming_events"`
	SystemTime     time.Time         `json:"system_time"`
	Components     map[string]string `json:"components"`
	Integrations   map[string]string `json:"integrations"`
	Uptime         string            `json:"uptime"`
}

// Concierge coordinates the household grocery workflows
type Concierge struct {
	inventory *inventory.Store
	planner   *planner.Planner
	resolver  *catalog.Resolver
	orders    *ordering.Synthesizer
	calendar  *calendar.Scheduler

	monitor *monitoring.Monitor
	metrics *monitoring.MetricsCollector

	storeAPIKey         string
	calendarCredentials string

	now    func() time.Time
	logger *log.Logger
}

// Option configures a Concierge
type Option func(*Concierge)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Concierge) { c.now = now }
}

// WithLogger overrides the logger
func WithLogger(l *log.Logger) Option {
	return func(c *Concierge) { c.logger = l }
}

// WithMetrics records workflow outcomes on the given collector
func WithMetrics(mc *monitoring.MetricsCollector) Option {
	return func(c *Concierge) { c.metrics = mc }
}

// WithMonitor overrides the component health monitor
func WithMonitor(m *monitoring.Monitor) Option {
	return func(c *Concierge) { c.monitor = m }
}

// WithCredentials records the external store and calendar credentials.
// The simulated components do not use them; they are reported in status.
func WithCredentials(storeAPIKey, calendarCredentials string) Option {
	return func(c *Concierge) {
		c.storeAPIKey = storeAPIKey
		c.calendarCredentials = calendarCredentials
	}
}

// New wires the components into a concierge
func New(
	store *inventory.Store,
	mealPlanner *planner.Planner,
	resolver *catalog.Resolver,
	orders *ordering.Synthesizer,
	scheduler *calendar.Scheduler,
	opts ...Option,
) *Concierge {
	c := &Concierge{
		inventory: store,
		planner:   mealPlanner,
		resolver:  resolver,
		orders:    orders,
		calendar:  scheduler,
		now:       time.Now,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.monitor == nil {
		c.monitor = monitoring.NewMonitor(c.now)
	}
	return c
}

// DailyCheck reports expiring and low-stock lines with recommendations
func (c *Concierge) DailyCheck() DailyCheck {
	started := c.now()
	c.logger.Printf("Performing daily fridge check...")

	expiring := c.inventory.ExpiringWithin(ExpiryWindowDays)
	lowStock := c.inventory.LowStock(LowStockThreshold)

	check := DailyCheck{
		Date:            models.DateOf(started).String(),
		ExpiringSoon:    expiring,
		LowStock:        lowStock,
		TotalItems:      c.inventory.Len(),
		Recommendations: make([]string, 0, 2),
	}

	if len(expiring) > 0 {
		check.Recommendations = append(check.Recommendations,
			fmt.Sprintf("Use %d expiring items in today's meals", len(expiring)))
	}
	if len(lowStock) > 0 {
		check.Recommendations = append(check.Recommendations,
			fmt.Sprintf("Consider restocking %d low-stock items", len(lowStock)))
	}
	if len(expiring) == 0 && len(lowStock) == 0 {
		check.Recommendations = append(check.Recommendations, "Your fridge is well-stocked and organized!")
	}

	c.logger.Printf("Daily check complete: %d expiring, %d low stock", len(expiring), len(lowStock))

	if c.metrics != nil {
		c.metrics.RecordInventory(check.TotalItems, len(expiring), len(lowStock))
	}
	c.finishRun(WorkflowDailyCheck, started, nil)
	return check
}

// PlanAndOrder generates a meal plan, prices its grocery list and, when
// autoOrder is set, places the order and schedules reminders. Ordering
// failures are reported in the result, not returned.
func (c *Concierge) PlanAndOrder(ctx context.Context, days int, preferences []string, autoOrder bool) *WorkflowResult {
	started := c.now()
	if days <= 0 {
		days = planner.DefaultDays
	}
	c.logger.Printf("Starting %d-day meal planning and ordering workflow...", days)

	plan := c.planner.Generate(ctx, c.inventory.Items(), days, preferences)
	lines := c.resolver.Resolve(plan.GroceryList)

	result := &WorkflowResult{
		MealPlan:             plan,
		GrocerySearchResults: lines,
		TotalEstimatedCost:   decimal.Zero,
		CalendarEvents:       make([]models.ReminderEvent, 0),
	}

	matched := make([]models.ResolvedLine, 0, len(lines))
	for _, line := range lines {
		if line.IsMatched() {
			matched = append(matched, line)
			result.TotalEstimatedCost = result.TotalEstimatedCost.Add(line.Matched.TotalCost)
		}
	}

	if c.metrics != nil {
		c.metrics.RecordPlan(string(plan.Source))
	}
	if c.planner.Mode() == planner.ModeOperational {
		if plan.Source == models.PlanSourceFallback {
			c.monitor.SetComponent(ComponentMealPlanner, monitoring.StatusDegraded, "live request failed, served fallback plan")
		} else {
			c.monitor.SetComponent(ComponentMealPlanner, planner.ModeOperational, "")
		}
	}

	var runErr error
	if autoOrder && len(matched) > 0 {
		delivery := c.preferredDelivery()
		order, err := c.orders.Create(matched, &delivery)
		if err != nil {
			c.logger.Printf("Error creating order: %v", err)
			result.OrderError = err.Error()
			runErr = err
			c.monitor.SetComponent(ComponentGroceryManager, monitoring.StatusDegraded, err.Error())
		} else {
			result.Order = order
			c.monitor.SetComponent(ComponentGroceryManager, monitoring.StatusOperational, "last order "+order.OrderID)
			deliveryEvent := c.calendar.ScheduleDelivery(order)
			mealEvents := c.calendar.ScheduleMealPrep(plan)
			result.CalendarEvents = append(result.CalendarEvents, deliveryEvent)
			result.CalendarEvents = append(result.CalendarEvents, mealEvents...)

			if c.metrics != nil {
				c.metrics.RecordOrder(order.Total.InexactFloat64())
				c.metrics.RecordReminders(string(models.EventKindDelivery), 1)
				c.metrics.RecordReminders(string(models.EventKindMealPrep), len(mealEvents))
			}
		}
	}

	c.logger.Printf("Meal planning and ordering workflow completed")
	c.finishRun(WorkflowPlanAndOrder, started, runErr)
	return result
}

// preferredDelivery is tomorrow at DeliveryHour in the clock's location
func (c *Concierge) preferredDelivery() time.Time {
	now := c.now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, DeliveryHour, 0, 0, 0, now.Location())
}

// SystemStatus reports inventory counts, upcoming events and component modes.
// A component left degraded by the last workflow run stays degraded until a
// later run succeeds.
func (c *Concierge) SystemStatus() SystemStatus {
	c.refreshComponent(ComponentFridge, monitoring.StatusOperational, fmt.Sprintf("%d items", c.inventory.Len()))
	c.refreshComponent(ComponentMealPlanner, c.planner.Mode(), "")
	c.refreshComponent(ComponentGroceryManager, monitoring.StatusOperational, "")
	c.refreshComponent(ComponentCalendar, monitoring.StatusOperational, fmt.Sprintf("%d events", c.calendar.Len()))

	components := make(map[string]string)
	for _, h := range c.monitor.Components() {
		components[h.Name] = h.Status
	}

	return SystemStatus{
		FridgeStatus: FridgeStatus{
			TotalItems:   c.inventory.Len(),
			Categories:   c.inventory.Categories(),
			ExpiringSoon: len(c.inventory.ExpiringWithin(ExpiryWindowDays)),
			LowStock:     len(c.inventory.LowStock(LowStockThreshold)),
		},
		UpcomingEvents: len(c.calendar.Upcoming(UpcomingWindowDays)),
		SystemTime:     c.now(),
		Components:     components,
		Integrations: map[string]string{
			"store_api": configured(c.storeAPIKey),
			"calendar":  configured(c.calendarCredentials),
		},
		Uptime: c.monitor.Uptime().Round(time.Second).String(),
	}
}

func (c *Concierge) refreshComponent(name, status, detail string) {
	if h, ok := c.monitor.Component(name); ok {
		if h.Status == monitoring.StatusDegraded {
			return
		}
		if detail == "" {
			detail = h.Detail
		}
	}
	c.monitor.SetComponent(name, status, detail)
}

func configured(credential string) string {
	if credential == "" {
		return "not_configured"
	}
	return "configured"
}

func (c *Concierge) finishRun(workflow string, started time.Time, err error) {
	c.monitor.RecordRun(workflow, started, err)
	if c.metrics != nil {
		c.metrics.ObserveWorkflow(workflow, c.now().Sub(started).Seconds())
	}
}

// OrderStatus returns the simulated tracking state of an order
func (c *Concierge) OrderStatus(orderID string) models.OrderTracking {
	return c.orders.Status(orderID)
}

// UpcomingEvents returns scheduled reminders within the next days
func (c *Concierge) UpcomingEvents(days int) []models.ReminderEvent {
	return c.calendar.Upcoming(days)
}

// Inventory exposes the inventory store
func (c *Concierge) Inventory() *inventory.Store {
	return c.inventory
}

// Calendar exposes the reminder scheduler
func (c *Concierge) Calendar() *calendar.Scheduler {
	return c.calendar
}

// Monitor exposes the component health monitor
func (c *Concierge) Monitor() *monitoring.Monitor {
	return c.monitor
}
