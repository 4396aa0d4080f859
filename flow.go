package tubes

import "reflect"

// A Fount is the producing end of a pipeline stage.
type Fount interface {
	// OutputType returns the type of the items produced, or nil if they are untyped.
	OutputType() reflect.Type

	// Drain returns the drain currently attached to this fount, or nil.
	Drain() Drain

	// FlowTo attaches drain to this fount, detaching any previously attached drain first.
	// It returns the fount that drain itself flows to, if any, so that calls can be chained.
	// FlowTo(nil) detaches the current drain and returns nil.
	FlowTo(drain Drain) (Fount, error)

	// PauseFlow asks the fount to temporarily stop delivering items.
	// Delivery resumes once every Pause returned by PauseFlow has been unpaused.
	PauseFlow() Pause

	// StopFlow asks the fount to stop delivering items for good.
	StopFlow()
}

// A Drain is the consuming end of a pipeline stage.
type Drain interface {
	// InputType returns the type of the items accepted, or nil if any item is accepted.
	InputType() reflect.Type

	// Fount returns the fount this drain is currently flowing from, or nil.
	Fount() Fount

	// FlowingFrom is called by fount.FlowTo to notify the drain of its new fount.
	// It returns a TypeMismatchError if the fount's items are not acceptable.
	// The returned fount, if not nil, is the fount the drain's own output flows from.
	FlowingFrom(fount Fount) (Fount, error)

	// Receive delivers a single item.
	Receive(item any)

	// FlowStopped notifies the drain that its fount will not deliver any more items.
	FlowStopped(reason error)
}

// TypeOf returns the type tag for items of type T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// accepts reports whether a drain accepting type in may flow from a fount producing type out.
// Untyped ends accept anything.
func accepts(in reflect.Type, out reflect.Type) bool {
	if in == nil || out == nil {
		return true
	}

	return out.AssignableTo(in)
}

func checkTypes(drain Drain, fount Fount) error {
	if fount == nil {
		return nil
	}

	in, out := drain.InputType(), fount.OutputType()
	if accepts(in, out) {
		return nil
	}

	return &TypeMismatchError{
		Produced: out,
		Accepted: in,
	}
}
