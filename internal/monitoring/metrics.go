package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns the concierge's prometheus registry
type MetricsCollector struct {
	registry *prometheus.Registry

	plansGenerated     *prometheus.CounterVec
	ordersCreated      prometheus.Counter
	orderTotal         prometheus.Histogram
	remindersScheduled *prometheus.CounterVec
	inventoryItems     prometheus.Gauge
	expiringItems      prometheus.Gauge
	lowStockItems      prometheus.Gauge
	workflowDuration   *prometheus.HistogramVec
}

// NewMetricsCollector creates a collector backed by a private registry
func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		plansGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_meal_plans_generated_total",
				Help: "Meal plans generated, by source",
			},
			[]string{"source"},
		),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "concierge_orders_created_total",
			Help: "Grocery orders placed",
		}),
		orderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "concierge_order_total_dollars",
			Help:    "Order totals including delivery fee and tip",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		remindersScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_reminders_scheduled_total",
				Help: "Calendar reminders scheduled, by type",
			},
			[]string{"type"},
		),
		inventoryItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concierge_inventory_items",
			Help: "Inventory lines on hand",
		}),
		expiringItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concierge_inventory_expiring_items",
			Help: "Inventory lines expiring within the daily check window",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concierge_inventory_low_stock_items",
			Help: "Inventory lines at or below the low stock threshold",
		}),
		workflowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "concierge_workflow_duration_seconds",
				Help: "Time taken by concierge workflows",
			},
			[]string{"workflow"},
		),
	}

	mc.registry.MustRegister(
		mc.plansGenerated,
		mc.ordersCreated,
		mc.orderTotal,
		mc.remindersScheduled,
		mc.inventoryItems,
		mc.expiringItems,
		mc.lowStockItems,
		mc.workflowDuration,
	)
	return mc
}

// Registry exposes the underlying registry
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the prometheus exposition format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// RecordPlan counts a generated meal plan
func (mc *MetricsCollector) RecordPlan(source string) {
	mc.plansGenerated.WithLabelValues(source).Inc()
}

// RecordOrder counts a placed order and observes its total
func (mc *MetricsCollector) RecordOrder(total float64) {
	mc.ordersCreated.Inc()
	mc.orderTotal.Observe(total)
}

// RecordReminders counts scheduled reminders of one type
func (mc *MetricsCollector) RecordReminders(kind string, n int) {
	mc.remindersScheduled.WithLabelValues(kind).Add(float64(n))
}

// RecordInventory sets the inventory gauges
func (mc *MetricsCollector) RecordInventory(total, expiring, lowStock int) {
	mc.inventoryItems.Set(float64(total))
	mc.expiringItems.Set(float64(expiring))
	mc.lowStockItems.Set(float64(lowStock))
}

// ObserveWorkflow records how long a workflow took
func (mc *MetricsCollector) ObserveWorkflow(workflow string, seconds float64) {
	mc.workflowDuration.WithLabelValues(workflow).Observe(seconds)
}
