package tubes

import (
	"iter"
	"reflect"

	"github.com/rs/zerolog"
)

// A Siphon drives a Tube, connecting it to a Drain that receives items from upstream and a Fount
// that delivers the tube's output downstream. It buffers the tube's output while downstream is
// paused or missing, and propagates pauses and stops upstream.
//
// A Siphon is not safe for concurrent use.
type Siphon struct {
	tube   Tube
	fount  *siphonFount
	drain  *siphonDrain
	name   string
	log    zerolog.Logger
	events Observer

	// currentlyPaused is true while any pause on this siphon's fount is outstanding.
	currentlyPaused bool

	// pauseBecausePauseCalled is the single pause this siphon holds on its upstream fount while
	// it is paused. It is a placeholderPause while there is no upstream fount.
	pauseBecausePauseCalled Pause

	// pauseBecauseNoDrain is held on this siphon's own fount while output is buffered
	// but nothing is attached downstream.
	pauseBecauseNoDrain Pause

	pending *pendingOutputs

	// suspended is the future the siphon is currently waiting on, if any. It has already been
	// pulled from pending. suspendPause is the pause held on the siphon's own fount meanwhile.
	suspended    *Future
	suspendPause Pause

	// generation is bumped when pending output is handed over to another stage.
	// Futures resolving for an older generation are ignored.
	generation uint64

	everStarted    bool
	flowWasStopped bool
	unbuffering    bool
	failed         bool

	stopping      bool
	stopReason    error
	stopDeferred  bool
	stopDelivered bool
}

type siphonFount struct {
	siphon *Siphon
	drain  Drain
	pauser *pauser
}

type siphonDrain struct {
	siphon *Siphon
	fount  Fount
}

// NewSiphon returns a siphon driving tube.
// It returns ErrTubeAlreadyBound if tube embeds Base and is already driven by another siphon.
func NewSiphon(tube Tube, opts ...Option) (*Siphon, error) {
	if b, ok := tube.(binder); ok && !b.bind() {
		return nil, ErrTubeAlreadyBound
	}

	o := newOptions(tube, opts)

	s := &Siphon{
		tube:   tube,
		name:   o.name,
		log:    o.stageLogger(),
		events: o.observer,
	}

	s.fount = &siphonFount{siphon: s}
	s.fount.pauser = newPauser(s.actuallyPause, s.actuallyResume)
	s.drain = &siphonDrain{siphon: s}

	return s, nil
}

// Tube returns the tube driven by s.
func (s *Siphon) Tube() Tube {
	return s.tube
}

// Fount returns the fount delivering the tube's output.
func (s *Siphon) Fount() Fount {
	return s.fount
}

// Drain returns the drain delivering items to the tube.
func (s *Siphon) Drain() Drain {
	return s.drain
}

// String implements fmt.Stringer.
func (s *Siphon) String() string {
	return "<siphon " + s.name + ">"
}

// deliverFrom calls a tube hook and buffers its output.
func (s *Siphon) deliverFrom(hook string, call func() (iter.Seq[Output], error)) {
	if s.pending != nil {
		panic(ErrOverlappingDelivery)
	}

	seq, err := call()
	if err != nil {
		s.fail(hook, err)
		return
	}

	if seq == nil {
		s.unbufferIterator()
		return
	}

	s.pending = newPending(seq)

	if s.fount.drain == nil && s.pauseBecauseNoDrain == nil {
		s.pauseBecauseNoDrain = s.fount.PauseFlow()
	}

	s.unbufferIterator()
}

// fail stops the flow through s after a hook failed.
func (s *Siphon) fail(hook string, err error) {
	s.log.Error().Err(err).Str("hook", hook).Msg("tube hook failed")
	s.events.HookFailed(s.name, hook, err)

	s.failed = true
	s.flowWasStopped = true
	s.stopping = true
	s.stopReason = err
	s.stopDeferred = false

	if up := s.drain.fount; up != nil {
		up.StopFlow()
	}

	// without a drain, the error is passed on once one is attached
	s.finishStop()
}

// unbufferIterator delivers pending output downstream until it is exhausted or s is paused,
// then releases the pause held upstream if s is flowing again.
// Calls made while already unbuffering return immediately; the outer call keeps delivering.
func (s *Siphon) unbufferIterator() {
	if s.unbuffering {
		return
	}

	s.drainPending()

	if s.currentlyPaused {
		return
	}

	if p := s.pauseBecausePauseCalled; p != nil {
		s.pauseBecausePauseCalled = nil
		_ = p.Unpause()
	}
}

func (s *Siphon) drainPending() {
	s.unbuffering = true
	defer func() {
		s.unbuffering = false
	}()

	for !s.currentlyPaused {
		if s.pending == nil {
			if s.stopDeferred {
				s.stopDeferred = false
				s.deliverStopped()

				continue
			}

			s.finishStop()

			return
		}

		down := s.fount.drain
		if down == nil {
			if s.pauseBecauseNoDrain == nil {
				s.pauseBecauseNoDrain = s.fount.PauseFlow()
			}

			return
		}

		out, ok := s.pending.pull()
		if !ok {
			s.pending = nil
			continue
		}

		if future, ok := out.Future(); ok {
			s.suspendOn(future)
			continue
		}

		s.events.ItemDelivered(s.name)
		down.Receive(out.Value())
	}
}

// suspendOn pauses s until future resolves, then puts its value back in front of the pending output.
func (s *Siphon) suspendOn(future *Future) {
	gen := s.generation

	p := s.fount.PauseFlow()

	s.suspended = future
	s.suspendPause = p

	future.OnComplete(func(value any, err error) {
		if gen != s.generation {
			return
		}

		s.suspended = nil
		s.suspendPause = nil

		if err != nil {
			s.log.Error().Err(err).Msg("future output failed, dropping it")
		} else if s.pending != nil {
			s.pending.pushFront(Item(value))
		} else if !s.failed {
			s.pending = pendingOf(Item(value))
		}

		_ = p.Unpause()
	})
}

// stopHandover is a stop that had not reached downstream yet when the siphon's output was
// handed over.
type stopHandover struct {
	reason error

	// hookPending is true if the tube's Stopped hook has not been called yet.
	hookPending bool
}

// handOver takes all output that has not been delivered yet, including a future the siphon is
// waiting on, so that another stage can deliver it instead. A stop that has not been passed
// downstream yet is handed over too, and will never reach the current drain.
func (s *Siphon) handOver() ([]Output, *stopHandover) {
	var buffered []Output

	if s.suspended != nil {
		buffered = append(buffered, Suspend(s.suspended))
	}

	if s.pending != nil {
		buffered = append(buffered, s.pending.remaining()...)
		s.pending = nil
	}

	var stop *stopHandover
	if s.stopping && !s.stopDelivered {
		stop = &stopHandover{
			reason:      s.stopReason,
			hookPending: s.stopDeferred,
		}

		s.stopDeferred = false
		s.stopDelivered = true
	}

	s.generation++

	if p := s.suspendPause; p != nil {
		s.suspended = nil
		s.suspendPause = nil

		_ = p.Unpause()
	}

	return buffered, stop
}

// deliverStopped calls the tube's Stopped hook with the recorded stop reason.
func (s *Siphon) deliverStopped() {
	reason := s.stopReason
	s.deliverFrom("stopped", func() (iter.Seq[Output], error) {
		return s.tube.Stopped(reason)
	})
}

// finishStop passes the stop reason downstream once all output has been delivered.
func (s *Siphon) finishStop() {
	if !s.stopping || s.stopDelivered || s.pending != nil {
		return
	}

	down := s.fount.drain
	if down == nil {
		return
	}

	s.stopDelivered = true

	s.log.Debug().AnErr("reason", s.stopReason).Msg("flow stopped")
	s.events.FlowStopped(s.name, s.stopReason)

	down.FlowStopped(s.stopReason)
}

func (s *Siphon) actuallyPause() {
	s.currentlyPaused = true
	s.events.FlowPaused(s.name)

	if s.pauseBecausePauseCalled != nil || s.flowWasStopped {
		return
	}

	if up := s.drain.fount; up != nil {
		s.pauseBecausePauseCalled = up.PauseFlow()
		return
	}

	s.pauseBecausePauseCalled = placeholderPause{}
}

func (s *Siphon) actuallyResume() {
	s.currentlyPaused = false
	s.events.FlowResumed(s.name)

	s.unbufferIterator()
}

// OutputType implements Fount.
func (f *siphonFount) OutputType() reflect.Type {
	return f.siphon.tube.OutputType()
}

// Drain implements Fount.
func (f *siphonFount) Drain() Drain {
	return f.drain
}

// FlowTo implements Fount.
func (f *siphonFount) FlowTo(drain Drain) (Fount, error) {
	if f.drain != nil && f.drain != drain {
		_, _ = f.drain.FlowingFrom(nil)
	}

	f.drain = drain

	if drain == nil {
		return nil, nil
	}

	next, err := drain.FlowingFrom(f)
	if err != nil {
		f.drain = nil
		return nil, err
	}

	s := f.siphon

	if p := s.pauseBecauseNoDrain; p != nil {
		s.pauseBecauseNoDrain = nil
		_ = p.Unpause()
	}

	s.unbufferIterator()

	return next, nil
}

// PauseFlow implements Fount.
func (f *siphonFount) PauseFlow() Pause {
	return f.pauser.pauseFlow()
}

// StopFlow implements Fount.
func (f *siphonFount) StopFlow() {
	s := f.siphon

	s.flowWasStopped = true

	if up := s.drain.fount; up != nil {
		up.StopFlow()
	}
}

// String implements fmt.Stringer.
func (f *siphonFount) String() string {
	return "<fount for " + f.siphon.name + ">"
}

// InputType implements Drain.
func (d *siphonDrain) InputType() reflect.Type {
	return d.siphon.tube.InputType()
}

// Fount implements Drain.
func (d *siphonDrain) Fount() Fount {
	return d.fount
}

// FlowingFrom implements Drain.
func (d *siphonDrain) FlowingFrom(fount Fount) (Fount, error) {
	if err := checkTypes(d, fount); err != nil {
		return nil, err
	}

	s := d.siphon

	d.fount = fount

	// move the pause we hold upstream over to the new fount. The new pause is taken
	// before the old one is released so that re-attaching the same fount never resumes it.
	if old := s.pauseBecausePauseCalled; old != nil {
		if fount == nil || s.flowWasStopped {
			s.pauseBecausePauseCalled = placeholderPause{}
		} else {
			s.pauseBecausePauseCalled = fount.PauseFlow()
		}

		_ = old.Unpause()
	}

	if fount != nil {
		if s.flowWasStopped {
			fount.StopFlow()
		}

		if !s.everStarted {
			s.everStarted = true
			s.deliverFrom("started", s.tube.Started)
		}
	}

	next := s.fount
	if next.drain == nil {
		return next, nil
	}

	return next.FlowTo(next.drain)
}

// Receive implements Drain.
func (d *siphonDrain) Receive(item any) {
	s := d.siphon

	if s.failed {
		s.log.Debug().Msg("dropping item received after failure")
		return
	}

	if s.stopping {
		s.log.Debug().Msg("dropping item received after flow stopped")
		return
	}

	s.events.ItemReceived(s.name)

	s.deliverFrom("received", func() (iter.Seq[Output], error) {
		return s.tube.Received(item)
	})
}

// FlowStopped implements Drain.
func (d *siphonDrain) FlowStopped(reason error) {
	s := d.siphon

	if s.failed || s.stopping {
		return
	}

	s.stopping = true
	s.stopReason = reason

	// output still buffered from an earlier hook goes first
	if s.pending != nil {
		s.stopDeferred = true
		return
	}

	s.deliverStopped()
}

// String implements fmt.Stringer.
func (d *siphonDrain) String() string {
	return "<drain for " + d.siphon.name + ">"
}
