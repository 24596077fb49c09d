package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// StockFetchTotal counts availability fetch outcomes by result.
	StockFetchTotal *prometheus.CounterVec
	// StockFetchLatency records availability fetch latency in milliseconds.
	StockFetchLatency *prometheus.HistogramVec
	// StockStaleDropped counts availability responses discarded by the sequence guard.
	StockStaleDropped prometheus.Counter
	// BasketClampTotal counts basket entries clamped down by availability data.
	BasketClampTotal prometheus.Counter
	// BookingConfirmedTotal counts confirmed bookings by payment result.
	BookingConfirmedTotal *prometheus.CounterVec
	// BootstrapLoadTotal counts bootstrap catalog load outcomes.
	BootstrapLoadTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		StockFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_fetch_total",
			Help:      "Count of availability fetch attempts by outcome.",
		}, []string{"result"})
		StockFetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stock_fetch_duration_ms",
			Help:      "Latency for availability fetch attempts in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})
		StockStaleDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_stale_dropped_total",
			Help:      "Number of availability responses dropped because a newer request superseded them.",
		})
		BasketClampTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_clamp_total",
			Help:      "Number of basket lines reduced to match reported stock.",
		})
		BookingConfirmedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_confirmed_total",
			Help:      "Count of booking confirmation attempts by payment result.",
		}, []string{"result"})
		BootstrapLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_load_total",
			Help:      "Count of bootstrap catalog load outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, StockFetchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StockFetchTotal = v
			}
		})
		mustRegisterCollector(reg, StockFetchLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				StockFetchLatency = v
			}
		})
		mustRegisterCollector(reg, StockStaleDropped, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				StockStaleDropped = v
			}
		})
		mustRegisterCollector(reg, BasketClampTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				BasketClampTotal = v
			}
		})
		mustRegisterCollector(reg, BookingConfirmedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BookingConfirmedTotal = v
			}
		})
		mustRegisterCollector(reg, BootstrapLoadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BootstrapLoadTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
