package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	remoteCalls = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_remote_call_duration_seconds",
			Help:    "Latency of calls to the GraphQL API and payment backends",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target", "operation", "status"},
	)

	paymentSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_payment_sessions_active",
			Help: "PIX payment sessions currently held in memory",
		},
	)

	paymentPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_payment_polls_total",
			Help: "PIX status polls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Checkout lifecycle transitions",
		},
		[]string{"stage"},
	)

	scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_ticket_scans_total",
			Help: "Entrance validations by result",
		},
		[]string{"result"},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_goroutines",
			Help: "Current number of goroutines",
		},
	)
)

func TrackCatalogCache(hit bool) {
	if hit {
		catalogCache.WithLabelValues("hit").Inc()
		return
	}
	catalogCache.WithLabelValues("miss").Inc()
}

func TrackRemoteCall(target, operation string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	remoteCalls.WithLabelValues(target, operation, status).Observe(d.Seconds())
}

func TrackPoll(provider, outcome string) {
	paymentPolls.WithLabelValues(provider, outcome).Inc()
}

func SetActiveSessions(n int) {
	paymentSessions.Set(float64(n))
}

func TrackCheckout(stage string) {
	checkouts.WithLabelValues(stage).Inc()
}

func TrackScan(valid bool) {
	if valid {
		scans.WithLabelValues("valid").Inc()
		return
	}
	scans.WithLabelValues("rejected").Inc()
}

// CollectRuntime samples runtime gauges until ctx is done.
func CollectRuntime(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		goroutineCount.Set(float64(runtime.NumGoroutine()))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
