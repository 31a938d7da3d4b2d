// Package metrics содержит Prometheus-метрики движка переходов.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MachineMetrics содержит метрики переходов статусов заказов.
type MachineMetrics struct {
	// Счётчики исходов переходов
	transitionsAccepted *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec

	// Гистограммы времени выполнения
	transitionDuration prometheus.Histogram
	actionDuration     *prometheus.HistogramVec

	// Счётчик созданных заказов
	ordersCreated prometheus.Counter
}

// NewMachineMetrics создаёт метрики движка в default-регистре.
func NewMachineMetrics() *MachineMetrics {
	return newMachineMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newMachineMetricsWithRegisterer(registerer prometheus.Registerer) *MachineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MachineMetrics{
		transitionsAccepted: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderflow_transitions_accepted_total",
			Help: "Total number of accepted order status transitions",
		}, []string{"event", "from", "to"}),
		transitionsRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderflow_transitions_rejected_total",
			Help: "Total number of rejected order status transitions",
		}, []string{"event", "from", "reason"}),
		transitionDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderflow_transition_duration_seconds",
			Help:    "Duration of accepted transitions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		actionDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orderflow_action_duration_seconds",
			Help:    "Duration of individual transition actions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"action"}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderflow_orders_created_total",
			Help: "Total number of orders created",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// ObserveTransitionAccepted фиксирует принятый переход и его длительность.
func (m *MachineMetrics) ObserveTransitionAccepted(event, from, to string, duration time.Duration) {
	m.transitionsAccepted.WithLabelValues(event, from, to).Inc()
	m.transitionDuration.Observe(duration.Seconds())
}

// ObserveTransitionRejected фиксирует отклонённый переход по причине.
func (m *MachineMetrics) ObserveTransitionRejected(event, from, reason string) {
	m.transitionsRejected.WithLabelValues(event, from, reason).Inc()
}

// ObserveActionDuration фиксирует длительность отдельного действия.
func (m *MachineMetrics) ObserveActionDuration(action string, duration time.Duration) {
	m.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *MachineMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}
