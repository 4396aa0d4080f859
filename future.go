package tubes

// A Future is a value that becomes available later. Tubes yield futures using Suspend
// to produce output asynchronously without giving up ordering.
//
// Futures are not safe for concurrent use: they must be resolved on the same logical
// flow of control that drives the pipeline.
type Future struct {
	done      bool
	value     any
	err       error
	callbacks []func(value any, err error)
}

// NewFuture returns a new, unresolved future.
func NewFuture() *Future {
	return &Future{}
}

// Resolved returns a future that has already resolved to value.
func Resolved(value any) *Future {
	f := NewFuture()
	f.Resolve(value)

	return f
}

// Rejected returns a future that has already failed with err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Reject(err)

	return f
}

// Resolve completes the future with value, calling all registered callbacks in order.
// It returns false if the future was already completed.
func (f *Future) Resolve(value any) bool {
	return f.complete(value, nil)
}

// Reject completes the future with err, calling all registered callbacks in order.
// It returns false if the future was already completed.
func (f *Future) Reject(err error) bool {
	return f.complete(nil, err)
}

// Done returns true if the future has completed.
func (f *Future) Done() bool {
	return f.done
}

// OnComplete registers fn to be called with the future's result.
// If the future has already completed, fn is called immediately.
func (f *Future) OnComplete(fn func(value any, err error)) {
	if f.done {
		fn(f.value, f.err)
		return
	}

	f.callbacks = append(f.callbacks, fn)
}

func (f *Future) complete(value any, err error) bool {
	if f.done {
		return false
	}

	f.done = true
	f.value = value
	f.err = err

	callbacks := f.callbacks
	f.callbacks = nil

	for _, fn := range callbacks {
		fn(value, err)
	}

	return true
}
