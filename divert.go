package tubes

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/rs/zerolog"
)

// A Divertable is a Tube whose buffered output can be handed over to a different drain.
type Divertable interface {
	Tube

	// Reassemble is given the outputs that were buffered but not yet delivered when the
	// flow is diverted, and returns the outputs to deliver to the new drain instead.
	// Buffered outputs may include futures created with Suspend, the first one possibly
	// being waited on already.
	Reassemble(buffered []Output) []Output
}

// A Diverter is a Drain driving a Divertable tube, whose upstream fount can be redirected
// to a different drain at any time without losing or duplicating buffered output.
type Diverter struct {
	Drain

	divertable Divertable
	siphon     *Siphon
	opts       []Option
}

// drainingTube replays reassembled outputs to a new drain, then hands the upstream fount over to it.
// It holds a pause on the upstream fount until the hand-over is complete.
type drainingTube struct {
	Base

	outputs            []Output
	eventualUpstream   Fount
	eventualDownstream Drain
	hangOn             Pause
	log                zerolog.Logger

	// stopped is set if upstream had already stopped. The stop reason is passed to the new
	// drain after the replay, preceded by the output of finalOutputs, if set.
	stopped      bool
	stopReason   error
	finalOutputs func() (iter.Seq[Output], error)
}

// bootstrapFount is a fount that never produces anything. It gets a replay stage started.
type bootstrapFount struct {
	drain Drain
}

// NewDiverter returns a diverter driving tube.
// It returns ErrNotDivertable if tube does not implement Divertable.
func NewDiverter(tube Tube, opts ...Option) (*Diverter, error) {
	divertable, ok := tube.(Divertable)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no Reassemble method", ErrNotDivertable, tube)
	}

	s, err := NewSiphon(divertable, opts...)
	if err != nil {
		return nil, err
	}

	return &Diverter{
		Drain:      s.Drain(),
		divertable: divertable,
		siphon:     s,
		opts:       opts,
	}, nil
}

// OutputFount returns the fount delivering the divertable tube's output.
// Fount, promoted from Drain, returns the fount flowing into the diverter.
func (d *Diverter) OutputFount() Fount {
	return d.siphon.Fount()
}

// String implements fmt.Stringer.
func (d *Diverter) String() string {
	return "<diverter for " + d.siphon.name + ">"
}

// Divert redirects the fount flowing into d to drain.
// Output buffered by the divertable tube, including a future it is waiting on, is reassembled
// and delivered to drain first; the upstream fount stays paused until that is done and it has
// been attached to drain. If upstream has already stopped, drain is told so after the replay.
func (d *Diverter) Divert(drain Drain) error {
	s := d.siphon

	upstream := d.Drain.Fount()
	if err := checkTypes(drain, upstream); err != nil {
		return err
	}

	dt := &drainingTube{
		eventualUpstream:   upstream,
		eventualDownstream: drain,
		hangOn:             placeholderPause{},
		log:                s.log,
	}

	// taken before the hand-over, which may release the siphon's own pause upstream
	if upstream != nil {
		dt.hangOn = upstream.PauseFlow()
	}

	buffered, stop := s.handOver()

	dt.outputs = d.divertable.Reassemble(buffered)

	if stop != nil {
		dt.stopped = true
		dt.stopReason = stop.reason

		if stop.hookPending {
			reason := stop.reason
			dt.finalOutputs = func() (iter.Seq[Output], error) {
				return d.divertable.Stopped(reason)
			}
		}
	}

	opts := make([]Option, 0, len(d.opts)+1)
	opts = append(opts, d.opts...)
	opts = append(opts, WithName(s.name+" replay"))

	replayDrain, err := IntoDrain(dt, opts...)
	if err != nil {
		return err
	}

	again, err := (&bootstrapFount{}).FlowTo(replayDrain)
	if err != nil {
		_ = dt.hangOn.Unpause()
		return err
	}

	if _, err := again.FlowTo(drain); err != nil {
		_ = dt.hangOn.Unpause()
		return fmt.Errorf("divert: %w", err)
	}

	return nil
}

// Started implements Tube.
func (t *drainingTube) Started() (iter.Seq[Output], error) {
	return func(yield func(Output) bool) {
		for len(t.outputs) > 0 {
			out := t.outputs[0]
			t.outputs = t.outputs[1:]

			if !yield(out) {
				return
			}
		}

		reason := t.stopReason

		if t.finalOutputs != nil {
			seq, err := t.finalOutputs()
			if err != nil {
				t.log.Error().Err(err).Str("hook", "stopped").Msg("tube hook failed")
				reason = err
			}

			if seq != nil {
				for out := range seq {
					if !yield(out) {
						return
					}
				}
			}
		}

		if t.eventualUpstream != nil {
			if _, err := t.eventualUpstream.FlowTo(t.eventualDownstream); err != nil {
				t.log.Error().Err(err).Msg("reattaching upstream after diversion failed")
			}
		}

		if t.stopped {
			t.eventualDownstream.FlowStopped(reason)
		}

		_ = t.hangOn.Unpause()
	}, nil
}

// Received implements Tube.
func (t *drainingTube) Received(item any) (iter.Seq[Output], error) {
	t.log.Warn().Interface("item", item).Msg("replay stage received an item")
	return nil, nil
}

// OutputType implements Fount.
func (f *bootstrapFount) OutputType() reflect.Type {
	return nil
}

// Drain implements Fount.
func (f *bootstrapFount) Drain() Drain {
	return f.drain
}

// FlowTo implements Fount.
func (f *bootstrapFount) FlowTo(drain Drain) (Fount, error) {
	f.drain = drain
	if drain == nil {
		return nil, nil
	}

	return drain.FlowingFrom(f)
}

// PauseFlow implements Fount.
func (f *bootstrapFount) PauseFlow() Pause {
	return placeholderPause{}
}

// StopFlow implements Fount.
func (f *bootstrapFount) StopFlow() {}
