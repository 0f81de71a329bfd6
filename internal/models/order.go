package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the possible states of a grocery order
type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
)

// Order is a priced grocery order. It is never modified after creation.
type Order struct {
	OrderID           string          `json:"order_id"`
	Status            OrderStatus     `json:"status"`
	Store             string          `json:"store"`
	Items             []ResolvedLine  `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	Tip               decimal.Decimal `json:"tip"`
	Total             decimal.Decimal `json:"total"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
}

// OrderTracking is the simulated delivery status of an order
type OrderTracking struct {
	OrderID           string      `json:"order_id"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	Driver            string      `json:"driver"`
	TrackingURL       string      `json:"tracking_url"`
}
