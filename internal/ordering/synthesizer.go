// Package ordering turns resolved catalog lines into a priced grocery order.
package ordering

import (
	"errors"
	"fmt"
	"log"
	"time"

	"concierge/internal/models"

	"github.com/shopspring/decimal"
)

// ErrNoAvailableProducts is returned when none of the lines can be ordered.
var ErrNoAvailableProducts = errors.New("no available products to order")

// StoreName is the simulated store every order is placed with.
const StoreName = "Mock Grocery Store"

// DefaultDeliveryLead is added to the creation time when no delivery time is requested.
const DefaultDeliveryLead = 2 * time.Hour

const orderIDLayout = "20060102_150405"

var (
	// DeliveryFee is charged once per order.
	DeliveryFee = decimal.RequireFromString("5.99")
	// TipRate is applied to the subtotal.
	TipRate = decimal.RequireFromString("0.15")
)

// Synthesizer prices and creates orders
type Synthesizer struct {
	now    func() time.Time
	logger *log.Logger
}

// NewSynthesizer creates a Synthesizer. A nil clock uses time.Now.
func NewSynthesizer(now func() time.Time, logger *log.Logger) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{now: now, logger: logger}
}

// Create builds an order from the matched, available lines. The order holds
// its own copies of the matched products. Order ids come
// from the creation time at second granularity, so two orders created in
// the same second share an id.
func (s *Synthesizer) Create(lines []models.ResolvedLine, preferredDelivery *time.Time) (*models.Order, error) {
	items := make([]models.ResolvedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		if !line.IsOrderable() {
			continue
		}
		matched := *line.Matched
		line.Matched = &matched
		items = append(items, line)
		subtotal = subtotal.Add(line.Matched.TotalCost)
	}

	if len(items) == 0 {
		s.logger.Printf("No available products to order")
		return nil, ErrNoAvailableProducts
	}

	subtotal = subtotal.Round(2)
	tip := subtotal.Mul(TipRate).Round(2)
	total := subtotal.Add(DeliveryFee).Add(tip)

	now := s.now()
	delivery := now.Add(DefaultDeliveryLead)
	if preferredDelivery != nil {
		delivery = *preferredDelivery
	}

	order := &models.Order{
		OrderID:           "ORD_" + now.Format(orderIDLayout),
		Status:            models.OrderStatusConfirmed,
		Store:             StoreName,
		Items:             items,
		Subtotal:          subtotal,
		DeliveryFee:       DeliveryFee,
		Tip:               tip,
		Total:             total,
		EstimatedDelivery: delivery,
		CreatedAt:         now,
	}

	s.logger.Printf("Created order %s for $%s", order.OrderID, order.Total.StringFixed(2))
	return order, nil
}

// Status returns a simulated tracking projection. It does not look the
// order up; any id gets an in-progress answer.
func (s *Synthesizer) Status(orderID string) models.OrderTracking {
	return models.OrderTracking{
		OrderID:           orderID,
		Status:            models.OrderStatusInProgress,
		EstimatedDelivery: s.now().Add(time.Hour),
		Driver:            "Mock Driver",
		TrackingURL:       fmt.Sprintf("https://mockstore.com/track/%s", orderID),
	}
}
