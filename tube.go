package tubes

import (
	"iter"
	"reflect"
)

// A Tube holds the logic of a pipeline stage. It is driven by exactly one Siphon, which
// calls its hooks and delivers the items they yield.
//
// Each hook returns a lazy sequence of outputs, or nil if it has nothing to say.
// Returning a non-nil error from a hook stops the stage: the upstream fount is stopped
// and the error is passed downstream as the stop reason.
type Tube interface {
	// InputType returns the type of items accepted by Received, or nil to accept anything.
	InputType() reflect.Type

	// OutputType returns the type of items yielded, or nil if they are untyped.
	OutputType() reflect.Type

	// Started is called once, when the tube's siphon is first attached to a fount.
	Started() (iter.Seq[Output], error)

	// Received is called for every item delivered to the tube's siphon.
	Received(item any) (iter.Seq[Output], error)

	// Stopped is called when the upstream fount has stopped.
	Stopped(reason error) (iter.Seq[Output], error)
}

// Base provides do-nothing implementations of all Tube methods.
// Tubes embed Base and implement only the methods they need.
//
// Tubes embedding Base can only ever be bound to one Siphon; see NewSiphon.
type Base struct {
	bound bool
}

// binder is implemented by pointers to structs embedding Base.
type binder interface {
	bind() bool
}

// Output is an item yielded by a Tube hook: either a value to be delivered right away,
// or a Future whose value is delivered once it resolves, in the same position.
type Output struct {
	value  any
	future *Future
}

// InputType implements Tube.
func (Base) InputType() reflect.Type {
	return nil
}

// OutputType implements Tube.
func (Base) OutputType() reflect.Type {
	return nil
}

// Started implements Tube.
func (Base) Started() (iter.Seq[Output], error) {
	return nil, nil
}

// Received implements Tube.
func (Base) Received(_ any) (iter.Seq[Output], error) {
	return nil, nil
}

// Stopped implements Tube.
func (Base) Stopped(_ error) (iter.Seq[Output], error) {
	return nil, nil
}

func (b *Base) bind() bool {
	if b.bound {
		return false
	}

	b.bound = true

	return true
}

// Item returns an output that delivers value.
func Item(value any) Output {
	return Output{value: value}
}

// Suspend returns an output that delivers the value of future once it resolves.
// future must not be nil.
func Suspend(future *Future) Output {
	return Output{future: future}
}

// Value returns the value of an output created by Item.
func (o Output) Value() any {
	return o.value
}

// Future returns the future of an output created by Suspend.
func (o Output) Future() (*Future, bool) {
	return o.future, o.future != nil
}

// Items returns a sequence of outputs delivering the given values, in order.
func Items(values ...any) iter.Seq[Output] {
	return func(yield func(Output) bool) {
		for _, value := range values {
			if !yield(Item(value)) {
				return
			}
		}
	}
}

// Values returns a sequence of outputs delivering the values of seq, in order.
func Values[T any](seq iter.Seq[T]) iter.Seq[Output] {
	return func(yield func(Output) bool) {
		for value := range seq {
			if !yield(Item(value)) {
				return
			}
		}
	}
}
