package tubes

import "fmt"

// IntoDrain converts v to a Drain.
// A Drain is returned as is, a Tube is wrapped in a new Siphon using opts.
// Anything else results in ErrNotDrainable.
func IntoDrain(v any, opts ...Option) (Drain, error) {
	switch v := v.(type) {
	case Drain:
		return v, nil

	case Tube:
		s, err := NewSiphon(v, opts...)
		if err != nil {
			return nil, err
		}

		return s.Drain(), nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrNotDrainable, v)
	}
}

// Series connects a series of tubes or drains, in order, and returns the drain of the first one.
// Items received by the returned drain flow through each element in turn.
// Once a fount flows to the returned drain, FlowTo returns the fount of the last element.
//
// Series(a, b, c) is equivalent to converting a, b, and c to drains, and chaining
// b's attachment to a's fount, and c's attachment to b's fount.
func Series(start any, tubes ...any) (Drain, error) {
	first, err := IntoDrain(start)
	if err != nil {
		return nil, err
	}

	drains := make([]Drain, len(tubes))
	for i, t := range tubes {
		if drains[i], err = IntoDrain(t); err != nil {
			return nil, err
		}
	}

	fount, err := first.FlowingFrom(nil)
	if err != nil {
		return nil, err
	}

	for i, drain := range drains {
		if fount == nil {
			return nil, fmt.Errorf("%w: element %d has no fount", ErrSeriesTerminated, i)
		}

		if fount, err = fount.FlowTo(drain); err != nil {
			return nil, fmt.Errorf("connect element %d: %w", i+1, err)
		}
	}

	return first, nil
}
