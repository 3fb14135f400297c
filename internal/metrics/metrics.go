// Package metrics provides Prometheus metrics for cart activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/menucart/internal/cart"
)

// CartMetrics tracks cart mutations and the resulting cart shape.
// Register one per registry; Observe is a cart.Listener.
type CartMetrics struct {
	// MutationsTotal counts applied cart actions by kind.
	MutationsTotal *prometheus.CounterVec

	// ConfigurationsTotal counts Confirm attempts by result
	// ("accepted" or "rejected").
	ConfigurationsTotal *prometheus.CounterVec

	// CartLines is the number of distinct lines after the last action.
	CartLines prometheus.Gauge

	// CartUnits is the total quantity across lines after the last action.
	CartUnits prometheus.Gauge

	// CartSubtotal is the unrounded subtotal after the last action.
	CartSubtotal prometheus.Gauge

	// OrdersPlacedTotal counts transitions into the order-placed state.
	OrdersPlacedTotal prometheus.Counter
}

// New creates cart metrics registered on reg.
func New(reg prometheus.Registerer) *CartMetrics {
	factory := promauto.With(reg)
	return &CartMetrics{
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menucart_cart_mutations_total",
				Help: "Total number of applied cart actions",
			},
			[]string{"action"},
		),
		ConfigurationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menucart_configurations_total",
				Help: "Total number of product configurations confirmed",
			},
			[]string{"result"},
		),
		CartLines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "menucart_cart_lines",
				Help: "Distinct lines in the cart",
			},
		),
		CartUnits: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "menucart_cart_units",
				Help: "Total item quantity in the cart",
			},
		),
		CartSubtotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "menucart_cart_subtotal",
				Help: "Cart subtotal before rounding",
			},
		),
		OrdersPlacedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "menucart_orders_placed_total",
				Help: "Total number of orders placed",
			},
		),
	}
}

// Observe records one applied action. It has the cart.Listener signature.
func (m *CartMetrics) Observe(s cart.State, a cart.Action) {
	m.MutationsTotal.WithLabelValues(a.Kind()).Inc()
	m.CartLines.Set(float64(len(s.Items)))
	m.CartUnits.Set(float64(s.ItemCount()))
	m.CartSubtotal.Set(s.Subtotal())

	if placed, ok := a.(cart.MarkOrderPlaced); ok && placed.Placed {
		m.OrdersPlacedTotal.Inc()
	}
}

// RecordConfiguration records the outcome of a Configurator.Confirm.
func (m *CartMetrics) RecordConfiguration(violations []string) {
	result := "accepted"
	if len(violations) > 0 {
		result = "rejected"
	}
	m.ConfigurationsTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes every metric gathered from g to path in the
// Prometheus text format, for collection by a node exporter textfile
// collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
