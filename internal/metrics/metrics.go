package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sigmavie",
		Name:      "orders_placed_total",
		Help:      "Total number of orders successfully placed",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sigmavie",
		Name:      "orders_cancelled_total",
		Help:      "Total number of orders cancelled",
	})

	StockRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmavie",
			Name:      "stock_rejections_total",
			Help:      "Stock mutations rejected by the non-negativity guard",
		},
		[]string{"reason"},
	)

	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmavie",
			Name:      "stock_adjustments_total",
			Help:      "Ledgered stock adjustments by type",
		},
		[]string{"type"},
	)

	SyncRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sigmavie",
		Name:      "sync_retries_total",
		Help:      "Queued client mutations replayed against the backend",
	})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigmavie",
		Name:      "ws_clients",
		Help:      "Connected websocket clients",
	})
)
