// Package metrics provides a tubes.Observer recording flow-control events as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/deadlyengineer/tubes"
)

// Stop outcomes used as label values.
const (
	OutcomeEnded = "ended"
	OutcomeError = "error"
)

// Config configures the observer.
type Config struct {
	// Namespace is the Prometheus namespace for all metrics.
	// Default: "tubes"
	Namespace string

	// Subsystem is the Prometheus subsystem for all metrics.
	// Default: "siphon"
	Subsystem string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Observer implements tubes.Observer.
type Observer struct {
	received     *prometheus.CounterVec
	delivered    *prometheus.CounterVec
	pauses       *prometheus.CounterVec
	resumes      *prometheus.CounterVec
	stops        *prometheus.CounterVec
	hookFailures *prometheus.CounterVec
	paused       *prometheus.GaugeVec
}

var _ tubes.Observer = (*Observer)(nil)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace: "tubes",
		Subsystem: "siphon",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// ApplyDefaults fills in unset fields with their default values.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()

	if c.Namespace == "" {
		c.Namespace = def.Namespace
	}
	if c.Subsystem == "" {
		c.Subsystem = def.Subsystem
	}
	if c.Registry == nil {
		c.Registry = def.Registry
	}
}

// NewObserver creates an observer and registers its metrics.
// Metrics that are already registered with the same descriptors are reused,
// so several observers with the same config share their metrics.
func NewObserver(config *Config) (*Observer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()

	counter := func(name string, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      name,
			Help:      help,
		}, append([]string{"stage"}, labels...))
	}

	o := &Observer{
		received:     counter("items_received_total", "Total number of items received by a stage"),
		delivered:    counter("items_delivered_total", "Total number of items delivered downstream by a stage"),
		pauses:       counter("pauses_total", "Total number of times a stage was paused"),
		resumes:      counter("resumes_total", "Total number of times a stage was resumed"),
		stops:        counter("stops_total", "Total number of stops passed downstream by a stage", "outcome"),
		hookFailures: counter("hook_failures_total", "Total number of failed tube hook calls", "hook"),
		paused: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "paused",
			Help:      "Whether a stage is currently paused (1) or flowing (0)",
		}, []string{"stage"}),
	}

	var err error

	if o.received, err = register(config.Registry, o.received); err != nil {
		return nil, err
	}
	if o.delivered, err = register(config.Registry, o.delivered); err != nil {
		return nil, err
	}
	if o.pauses, err = register(config.Registry, o.pauses); err != nil {
		return nil, err
	}
	if o.resumes, err = register(config.Registry, o.resumes); err != nil {
		return nil, err
	}
	if o.stops, err = register(config.Registry, o.stops); err != nil {
		return nil, err
	}
	if o.hookFailures, err = register(config.Registry, o.hookFailures); err != nil {
		return nil, err
	}
	if o.paused, err = register(config.Registry, o.paused); err != nil {
		return nil, err
	}

	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

// ItemReceived implements tubes.Observer.
func (o *Observer) ItemReceived(stage string) {
	o.received.WithLabelValues(stage).Inc()
}

// ItemDelivered implements tubes.Observer.
func (o *Observer) ItemDelivered(stage string) {
	o.delivered.WithLabelValues(stage).Inc()
}

// FlowPaused implements tubes.Observer.
func (o *Observer) FlowPaused(stage string) {
	o.pauses.WithLabelValues(stage).Inc()
	o.paused.WithLabelValues(stage).Set(1)
}

// FlowResumed implements tubes.Observer.
func (o *Observer) FlowResumed(stage string) {
	o.resumes.WithLabelValues(stage).Inc()
	o.paused.WithLabelValues(stage).Set(0)
}

// FlowStopped implements tubes.Observer.
func (o *Observer) FlowStopped(stage string, reason error) {
	outcome := OutcomeError
	if reason == nil || errors.Is(reason, tubes.ErrFlowEnded) {
		outcome = OutcomeEnded
	}

	o.stops.WithLabelValues(stage, outcome).Inc()
}

// HookFailed implements tubes.Observer.
func (o *Observer) HookFailed(stage string, hook string, _ error) {
	o.hookFailures.WithLabelValues(stage, hook).Inc()
}
