package tubes

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Option configures a Siphon.
type Option func(*options)

type options struct {
	name     string
	logger   *zerolog.Logger
	observer Observer
}

// Observer is notified of flow-control events happening in a siphon.
// Implementations must not call back into the pipeline.
type Observer interface {
	// ItemReceived is called when the stage's drain receives an item.
	ItemReceived(stage string)

	// ItemDelivered is called when the stage delivers an item downstream.
	ItemDelivered(stage string)

	// FlowPaused is called when the stage goes from flowing to paused.
	FlowPaused(stage string)

	// FlowResumed is called when the last pause on the stage is released.
	FlowResumed(stage string)

	// FlowStopped is called when the stage passes a stop reason downstream.
	FlowStopped(stage string, reason error)

	// HookFailed is called when one of the stage's tube hooks returns an error.
	HookFailed(stage string, hook string, err error)
}

type nopObserver struct{}

// WithName sets the stage name used in logs and observer events.
// The default is the tube's type name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithObserver sets an observer for flow-control events.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func newOptions(tube Tube, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.name == "" {
		o.name = fmt.Sprintf("%T", tube)
	}

	if o.logger == nil {
		logger := log.Logger
		o.logger = &logger
	}

	if o.observer == nil {
		o.observer = nopObserver{}
	}

	return o
}

func (o options) stageLogger() zerolog.Logger {
	return o.logger.With().
		Str("component", "tubes").
		Str("stage", o.name).
		Logger()
}

func (nopObserver) ItemReceived(string)              {}
func (nopObserver) ItemDelivered(string)             {}
func (nopObserver) FlowPaused(string)                {}
func (nopObserver) FlowResumed(string)               {}
func (nopObserver) FlowStopped(string, error)        {}
func (nopObserver) HookFailed(string, string, error) {}
