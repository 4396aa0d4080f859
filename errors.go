package tubes

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is matched by a TypeMismatchError returned when a drain is attached to a fount
	// whose output type it does not accept.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAlreadyUnpaused is returned when Unpause is called more than once on the same Pause.
	ErrAlreadyUnpaused = errors.New("already unpaused")

	// ErrOverlappingDelivery is the panic value used when a siphon is asked to buffer a second
	// output sequence while the first one is still pending. It indicates a defect, usually a
	// tube hook that was re-entered while its siphon was still draining.
	ErrOverlappingDelivery = errors.New("overlapping delivery: output sequence already pending")

	// ErrTubeAlreadyBound is returned when a tube is wrapped by a second siphon.
	ErrTubeAlreadyBound = errors.New("tube already bound to a siphon")

	// ErrNotDrainable is returned when Series or IntoDrain is given something that is neither a Drain nor a Tube.
	ErrNotDrainable = errors.New("not convertible to a drain")

	// ErrSeriesTerminated is returned by Series when a drain in the middle of the series does not flow anywhere.
	ErrSeriesTerminated = errors.New("series terminated early")

	// ErrNotDivertable is returned by NewDiverter when the tube cannot reassemble its buffered output.
	ErrNotDivertable = errors.New("tube is not divertable")

	// ErrFlowEnded is the reason given to a drain when its fount has no more items.
	ErrFlowEnded = errors.New("flow ended")

	// ErrStopFlowCalled is the reason given to a drain when its fount was told to stop.
	ErrStopFlowCalled = errors.New("stop flow called")

	// ErrNilFuture is returned by tubes that were given a nil future to wait on.
	ErrNilFuture = errors.New("nil future")

	// ErrUnexpectedItem is returned by typed tubes and drains that receive an item of the wrong type.
	ErrUnexpectedItem = errors.New("unexpected item")
)

// A TypeMismatchError is returned by FlowingFrom when the fount's output type is not assignable
// to the drain's input type.
type TypeMismatchError struct {
	// Produced is the output type of the fount.
	Produced reflect.Type

	// Accepted is the input type of the drain.
	Accepted reflect.Type
}

// Error implements error.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: drain accepting %v cannot flow from fount producing %v", e.Accepted, e.Produced)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func unexpectedItem(item any, want reflect.Type) error {
	return fmt.Errorf("%w: got %T, want %v", ErrUnexpectedItem, item, want)
}
