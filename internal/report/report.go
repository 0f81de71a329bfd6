// Package report renders concierge results for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"

	"concierge/internal/concierge"
	"concierge/internal/models"
	"concierge/internal/monitoring"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff9f0a"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#30d158"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Welcome is the banner printed before a report run
func Welcome() string {
	return docStyle.Render(titleStyle.Render("Welcome to GroceryConcierge - Your Smart Fridge Assistant!"))
}

// DailyCheck renders the daily inventory check
func DailyCheck(check concierge.DailyCheck) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Daily Fridge Check") + "\n\n")
	fmt.Fprintf(&b, "Date: %s\n", check.Date)
	fmt.Fprintf(&b, "Total items in fridge: %d\n", check.TotalItems)

	if len(check.ExpiringSoon) > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Expiring soon (%d items):", len(check.ExpiringSoon))) + "\n")
		for _, item := range check.ExpiringSoon {
			fmt.Fprintf(&b, "  - %s: %d %s (expires %s)\n", item.Name, item.Quantity, item.Unit, item.ExpiryDate)
		}
	}

	if len(check.LowStock) > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Low stock (%d items):", len(check.LowStock))) + "\n")
		for _, item := range check.LowStock {
			fmt.Fprintf(&b, "  - %s: %d %s\n", item.Name, item.Quantity, item.Unit)
		}
	}

	b.WriteString("\n" + headingStyle.Render("Recommendations:") + "\n")
	for _, rec := range check.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}

	return docStyle.Render(b.String())
}

// Plan renders a meal plan, its shopping list and any order placed
func Plan(result *concierge.WorkflowResult) string {
	var b strings.Builder
	plan := result.MealPlan
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d-Day Meal Plan", len(plan.Days))) + "\n")

	for _, key := range plan.DayKeys() {
		meals := plan.Days[key]
		label := key
		if day, ok := models.ParseDayKey(key); ok {
			label = fmt.Sprintf("Day %d", day)
		}
		b.WriteString("\n" + headingStyle.Render(label+":") + "\n")
		fmt.Fprintf(&b, "  Breakfast: %s\n", orTBD(meals.Breakfast))
		fmt.Fprintf(&b, "  Lunch: %s\n", orTBD(meals.Lunch))
		fmt.Fprintf(&b, "  Dinner: %s\n", orTBD(meals.Dinner))
	}

	b.WriteString("\n" + titleStyle.Render("Grocery Shopping List") + "\n\n")
	for _, line := range result.GrocerySearchResults {
		item := line.Requested
		if line.IsMatched() {
			b.WriteString(okStyle.Render("[x]") + fmt.Sprintf(" %s: %d %s - $%s\n",
				item.Name, item.Quantity, item.Unit, line.Matched.TotalCost.StringFixed(2)))
		} else {
			b.WriteString(errorStyle.Render("[ ]") + fmt.Sprintf(" %s: Not available\n", item.Name))
		}
	}
	fmt.Fprintf(&b, "\nEstimated total: $%s\n", result.TotalEstimatedCost.StringFixed(2))

	if len(plan.Notes) > 0 {
		b.WriteString("\n" + headingStyle.Render("Notes:") + "\n")
		for _, note := range plan.Notes {
			fmt.Fprintf(&b, "  - %s\n", note)
		}
	}

	if result.Order != nil {
		b.WriteString("\n" + boxStyle.Render(orderSummary(result.Order)) + "\n")
	}
	if result.OrderError != "" {
		b.WriteString("\n" + errorStyle.Render("Order not placed: "+result.OrderError) + "\n")
	}
	if len(result.CalendarEvents) > 0 {
		fmt.Fprintf(&b, "\nScheduled %d calendar events\n", len(result.CalendarEvents))
	}

	return docStyle.Render(b.String())
}

func orderSummary(order *models.Order) string {
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", order.Subtotal},
		{"Delivery fee", order.DeliveryFee},
		{"Tip", order.Tip},
		{"Total", order.Total},
	}

	lines := []string{headingStyle.Render("Order " + order.OrderID), order.Store}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-13s $%s", r.label+":", r.value.StringFixed(2)))
	}
	lines = append(lines, "Delivery: "+order.EstimatedDelivery.Format("2006-01-02 15:04"))
	return strings.Join(lines, "\n")
}

// Status renders the system status
func Status(status concierge.SystemStatus) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System Status") + "\n\n")

	names := make([]string, 0, len(status.Components))
	for name := range status.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := status.Components[name]
		marker := okStyle.Render("ok")
		if state != monitoring.StatusOperational {
			marker = warnStyle.Render("!!")
		}
		fmt.Fprintf(&b, "%s %s: %s\n", marker, titleCase(name), state)
	}

	fmt.Fprintf(&b, "\nUpcoming events: %d\n", status.UpcomingEvents)
	fmt.Fprintf(&b, "System time: %s\n", status.SystemTime.Format("2006-01-02T15:04:05"))
	b.WriteString(mutedStyle.Render("Tip: Set up API keys for full functionality!") + "\n")

	return docStyle.Render(b.String())
}

func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func orTBD(s string) string {
	if s == "" {
		return "TBD"
	}
	return s
}
