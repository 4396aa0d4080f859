package tubes

import (
	"errors"
	"iter"
	"reflect"
	"strings"
)

// fakeFount is a fount that only records what is done to it.
type fakeFount struct {
	outputType reflect.Type
	drain      Drain
	pauser     *pauser
	stops      int
}

// fakeDrain is a drain that records everything it receives.
type fakeDrain struct {
	inputType reflect.Type
	fount     Fount
	received  []any
	stops     []error
	onReceive func(item any)
}

// repeater yields every int it receives, followed by the int times ten.
type repeater struct {
	Base
}

// closer yields -1 when stopped.
type closer struct {
	repeater
}

// starter yields a greeting when started, counting how often that happens.
type starter struct {
	Base

	starts int
}

// failer fails when it receives its bad item.
type failer struct {
	Base

	bad any
	err error
}

// chars yields every character of a string separately, and rejoins buffered characters
// when diverted.
type chars struct {
	Base

	reassembled [][]Output
}

// endingChars is chars yielding "$" when stopped.
type endingChars struct {
	chars
}

// asyncChars yields the first character of a string, waits on middle, then yields the last character.
type asyncChars struct {
	Base

	middle      *Future
	reassembled [][]Output
}

var errBoom = errors.New("boom")

func newFakeFount() *fakeFount {
	return &fakeFount{
		pauser: newPauser(func() {}, func() {}),
	}
}

func (f *fakeFount) OutputType() reflect.Type {
	return f.outputType
}

func (f *fakeFount) Drain() Drain {
	return f.drain
}

func (f *fakeFount) FlowTo(drain Drain) (Fount, error) {
	if f.drain != nil && f.drain != drain {
		_, _ = f.drain.FlowingFrom(nil)
	}

	f.drain = drain
	if drain == nil {
		return nil, nil
	}

	return drain.FlowingFrom(f)
}

func (f *fakeFount) PauseFlow() Pause {
	return f.pauser.pauseFlow()
}

func (f *fakeFount) StopFlow() {
	f.stops++
}

func (f *fakeFount) paused() bool {
	return f.pauser.paused()
}

func (d *fakeDrain) InputType() reflect.Type {
	return d.inputType
}

func (d *fakeDrain) Fount() Fount {
	return d.fount
}

func (d *fakeDrain) FlowingFrom(fount Fount) (Fount, error) {
	if err := checkTypes(d, fount); err != nil {
		return nil, err
	}

	d.fount = fount

	return nil, nil
}

func (d *fakeDrain) Receive(item any) {
	d.received = append(d.received, item)

	if d.onReceive != nil {
		d.onReceive(item)
	}
}

func (d *fakeDrain) FlowStopped(reason error) {
	d.stops = append(d.stops, reason)
}

func (repeater) Received(item any) (iter.Seq[Output], error) {
	n := item.(int)
	return Items(n, n*10), nil
}

func (closer) Stopped(_ error) (iter.Seq[Output], error) {
	return Items(-1), nil
}

func (s *starter) Started() (iter.Seq[Output], error) {
	s.starts++
	return Items("hello"), nil
}

func (f *failer) Received(item any) (iter.Seq[Output], error) {
	if item == f.bad {
		return nil, f.err
	}

	return Items(item), nil
}

func (c *chars) Received(item any) (iter.Seq[Output], error) {
	return func(yield func(Output) bool) {
		for _, r := range item.(string) {
			if !yield(Item(string(r))) {
				return
			}
		}
	}, nil
}

func (c *chars) Reassemble(buffered []Output) []Output {
	c.reassembled = append(c.reassembled, buffered)

	if len(buffered) == 0 {
		return nil
	}

	b := strings.Builder{}
	for _, out := range buffered {
		b.WriteString(out.Value().(string))
	}

	return []Output{Item(b.String())}
}

// connect flows fount through a new siphon driving tube, to drain.
func connect(fount Fount, tube Tube, drain Drain, opts ...Option) (*Siphon, error) {
	s, err := NewSiphon(tube, opts...)
	if err != nil {
		return nil, err
	}

	next, err := fount.FlowTo(s.Drain())
	if err != nil {
		return nil, err
	}

	if _, err := next.FlowTo(drain); err != nil {
		return nil, err
	}

	return s, nil
}

// collectThrough flows fount through a series of tubes, into a new collector.
func collectThrough[T any](fount Fount, start any, tubes ...any) (*Collector[T], error) {
	drain, err := Series(start, tubes...)
	if err != nil {
		return nil, err
	}

	next, err := fount.FlowTo(drain)
	if err != nil {
		return nil, err
	}

	c := CollectSlice[T]()
	if _, err := next.FlowTo(c); err != nil {
		return nil, err
	}

	return c, nil
}

func (endingChars) Stopped(_ error) (iter.Seq[Output], error) {
	return Items("$"), nil
}

func (c *asyncChars) Received(item any) (iter.Seq[Output], error) {
	str := item.(string)

	return func(yield func(Output) bool) {
		_ = yield(Item(str[:1])) &&
			yield(Suspend(c.middle)) &&
			yield(Item(str[len(str)-1:]))
	}, nil
}

func (c *asyncChars) Reassemble(buffered []Output) []Output {
	c.reassembled = append(c.reassembled, buffered)
	return buffered
}
