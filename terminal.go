package tubes

import (
	"reflect"
)

// ConsumerFunc consumes element elem.
// The index is the 0-based index of elem, in the order delivered by the upstream fount.
type ConsumerFunc[T any] func(elem T, index uint64)

// An EachDrain is a drain that calls a ConsumerFunc for each item it receives.
type EachDrain[T any] struct {
	each  ConsumerFunc[T]
	fount Fount
	index uint64

	stopped bool
	reason  error
}

// Each returns a drain that calls each for each item received.
// Items that are not of type T stop the upstream fount.
func Each[T any](each ConsumerFunc[T]) *EachDrain[T] {
	return &EachDrain[T]{
		each: each,
	}
}

// InputType implements Drain.
func (d *EachDrain[T]) InputType() reflect.Type {
	return TypeOf[T]()
}

// Fount implements Drain.
func (d *EachDrain[T]) Fount() Fount {
	return d.fount
}

// FlowingFrom implements Drain.
func (d *EachDrain[T]) FlowingFrom(fount Fount) (Fount, error) {
	if err := checkTypes(d, fount); err != nil {
		return nil, err
	}

	d.fount = fount

	return nil, nil
}

// Receive implements Drain.
func (d *EachDrain[T]) Receive(item any) {
	if d.stopped {
		return
	}

	elem, ok := item.(T)
	if !ok {
		d.stop(unexpectedItem(item, TypeOf[T]()))
		return
	}

	d.each(elem, d.index)
	d.index++
}

// FlowStopped implements Drain.
func (d *EachDrain[T]) FlowStopped(reason error) {
	if d.stopped {
		return
	}

	d.stopped = true
	d.reason = reason
}

// Stopped returns true and the stop reason if the flow into d has stopped.
func (d *EachDrain[T]) Stopped() (bool, error) {
	return d.stopped, d.reason
}

// stop records reason and stops the upstream fount.
func (d *EachDrain[T]) stop(reason error) {
	d.stopped = true
	d.reason = reason

	if d.fount != nil {
		d.fount.StopFlow()
	}
}
