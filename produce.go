package tubes

import (
	"iter"
	"reflect"
)

// An IterFount is a fount that delivers the values of a sequence to its drain, one at a time,
// for as long as it is not paused. Once the sequence is exhausted, the drain's FlowStopped
// is called with ErrFlowEnded.
type IterFount struct {
	outputType reflect.Type
	next       func() (any, bool)
	stop       func()
	drain      Drain
	pauser     *pauser

	pumping  bool
	finished bool
}

// Produce returns a fount that produces the elements of the given slices, in order.
func Produce[T any](slices ...[]T) *IterFount {
	return ProduceSeq(func(yield func(T) bool) {
		for _, slice := range slices {
			for _, elem := range slice {
				if !yield(elem) {
					return
				}
			}
		}
	})
}

// ProduceSeq returns a fount that produces the elements of seq, in order.
// seq is only consumed while the fount is flowing to a drain and not paused.
func ProduceSeq[T any](seq iter.Seq[T]) *IterFount {
	next, stop := iter.Pull(func(yield func(any) bool) {
		for elem := range seq {
			if !yield(elem) {
				return
			}
		}
	})

	f := &IterFount{
		outputType: TypeOf[T](),
		next:       next,
		stop:       stop,
	}

	f.pauser = newPauser(func() {}, f.pump)

	return f
}

// OutputType implements Fount.
func (f *IterFount) OutputType() reflect.Type {
	return f.outputType
}

// Drain implements Fount.
func (f *IterFount) Drain() Drain {
	return f.drain
}

// FlowTo implements Fount.
// Production starts as soon as drain is attached, unless the fount is paused.
func (f *IterFount) FlowTo(drain Drain) (Fount, error) {
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

	f.pump()

	return next, nil
}

// PauseFlow implements Fount.
func (f *IterFount) PauseFlow() Pause {
	return f.pauser.pauseFlow()
}

// StopFlow implements Fount.
func (f *IterFount) StopFlow() {
	if f.finished {
		return
	}

	f.finish(ErrStopFlowCalled)
}

// Paused returns true if the fount is currently paused.
func (f *IterFount) Paused() bool {
	return f.pauser.paused()
}

// Finished returns true if the fount has run out of elements or was stopped.
func (f *IterFount) Finished() bool {
	return f.finished
}

func (f *IterFount) pump() {
	if f.pumping {
		return
	}

	f.pumping = true
	defer func() {
		f.pumping = false
	}()

	for f.drain != nil && !f.finished && !f.pauser.paused() {
		elem, ok := f.next()
		if !ok {
			f.finish(ErrFlowEnded)
			return
		}

		f.drain.Receive(elem)
	}
}

func (f *IterFount) finish(reason error) {
	f.finished = true
	f.stop()

	if f.drain != nil {
		f.drain.FlowStopped(reason)
	}
}
