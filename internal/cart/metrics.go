package cart

import "github.com/prometheus/client_golang/prometheus"

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update_amount"

	outcomeOK            = "ok"
	outcomeStockExceeded = "stock_exceeded"
	outcomeNotInCart     = "not_in_cart"
	outcomeUpstream      = "upstream_error"
	outcomePersist       = "persist_error"
	outcomeInvalidAmount = "invalid_amount"
	outcomeOther         = "error"
)

type Metrics struct {
	Operations *prometheus.CounterVec
	Items      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_operations_total",
				Help: "Cart operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_items",
			Help: "Distinct products currently in the cart",
		}),
	}
	reg.MustRegister(m.Operations, m.Items)
	return m
}

func (m *Metrics) observe(op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) setItems(n int) {
	if m == nil {
		return
	}
	m.Items.Set(float64(n))
}
