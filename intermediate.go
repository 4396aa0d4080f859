package tubes

import (
	"fmt"
	"iter"
	"reflect"
)

// Function returns the result of applying an operation to elem.
type Function[T any, U any] func(elem T) U

// PredicateFunc returns true if elem matches a predicate.
type PredicateFunc[T any] func(elem T) bool

// funcTube is a tube receiving items of type T and yielding items of type U.
type funcTube[T any, U any] struct {
	Base

	received func(elem T) (iter.Seq[Output], error)
}

// FuncTube returns a tube that calls received for each item of type T.
// Items that are not of type T stop the flow with ErrUnexpectedItem.
func FuncTube[T any, U any](received func(elem T) (iter.Seq[Output], error)) Tube {
	return &funcTube[T, U]{
		received: received,
	}
}

// Map returns a tube that calls mapp for each item, yielding the result.
func Map[T any, U any](mapp Function[T, U]) Tube {
	return FuncTube[T, U](func(elem T) (iter.Seq[Output], error) {
		return Items(mapp(elem)), nil
	})
}

// TryMap returns a tube that calls mapp for each item, yielding the result.
// If mapp returns an error, the flow is stopped with that error.
func TryMap[T any, U any](mapp func(elem T) (U, error)) Tube {
	return FuncTube[T, U](func(elem T) (iter.Seq[Output], error) {
		out, err := mapp(elem)
		if err != nil {
			return nil, err
		}

		return Items(out), nil
	})
}

// MapAsync returns a tube that calls mapp for each item, yielding the value the returned future
// resolves to. The flow is paused while waiting, so items keep their order.
// If mapp returns a nil future, the flow is stopped with ErrNilFuture.
func MapAsync[T any, U any](mapp Function[T, *Future]) Tube {
	return FuncTube[T, U](func(elem T) (iter.Seq[Output], error) {
		future := mapp(elem)
		if future == nil {
			return nil, fmt.Errorf("%w: mapping %v", ErrNilFuture, elem)
		}

		return func(yield func(Output) bool) {
			yield(Suspend(future))
		}, nil
	})
}

// FlatMap returns a tube that calls mapp for each item, yielding all elements of the returned sequence, in order.
func FlatMap[T any, U any](mapp Function[T, iter.Seq[U]]) Tube {
	return FuncTube[T, U](func(elem T) (iter.Seq[Output], error) {
		seq := mapp(elem)
		if seq == nil {
			return nil, nil
		}

		return Values(seq), nil
	})
}

// Filter returns a tube that only yields items for which filter returns true.
func Filter[T any](filter PredicateFunc[T]) Tube {
	return FuncTube[T, T](func(elem T) (iter.Seq[Output], error) {
		if !filter(elem) {
			return nil, nil
		}

		return Items(elem), nil
	})
}

// Peek returns a tube that calls peek for each item, and yields the same item.
func Peek[T any](peek func(elem T)) Tube {
	return FuncTube[T, T](func(elem T) (iter.Seq[Output], error) {
		peek(elem)
		return Items(elem), nil
	})
}

// Skip returns a tube that yields the same items, skipping the first num items.
func Skip[T any](num uint64) Tube {
	done := uint64(0)

	return FuncTube[T, T](func(elem T) (iter.Seq[Output], error) {
		done++
		if done <= num {
			return nil, nil
		}

		return Items(elem), nil
	})
}

// Identity returns a tube that yields the same item it receives.
func Identity[T any]() Tube {
	return Map(func(elem T) T {
		return elem
	})
}

// InputType implements Tube.
func (t *funcTube[T, U]) InputType() reflect.Type {
	return TypeOf[T]()
}

// OutputType implements Tube.
func (t *funcTube[T, U]) OutputType() reflect.Type {
	return TypeOf[U]()
}

// Received implements Tube.
func (t *funcTube[T, U]) Received(item any) (iter.Seq[Output], error) {
	elem, ok := item.(T)
	if !ok {
		return nil, unexpectedItem(item, TypeOf[T]())
	}

	return t.received(elem)
}
