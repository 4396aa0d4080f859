package tubes

import (
	"iter"

	"golang.org/x/exp/slices"
)

// pendingOutputs is the output sequence a siphon is currently draining.
// Values spliced in by resolved futures are kept in front and delivered first.
type pendingOutputs struct {
	front []Output
	next  func() (Output, bool)
	stop  func()
}

func newPending(seq iter.Seq[Output]) *pendingOutputs {
	next, stop := iter.Pull(seq)

	return &pendingOutputs{
		next: next,
		stop: stop,
	}
}

func pendingOf(outputs ...Output) *pendingOutputs {
	return &pendingOutputs{
		front: outputs,
	}
}

func (p *pendingOutputs) pull() (Output, bool) {
	if len(p.front) > 0 {
		out := p.front[0]
		p.front = p.front[1:]

		return out, true
	}

	if p.next == nil {
		return Output{}, false
	}

	out, ok := p.next()
	if !ok {
		p.close()
	}

	return out, ok
}

func (p *pendingOutputs) pushFront(out Output) {
	p.front = slices.Insert(p.front, 0, out)
}

// remaining pulls and returns all outputs that have not been delivered yet.
func (p *pendingOutputs) remaining() []Output {
	outs := slices.Clone(p.front)
	p.front = nil

	for {
		out, ok := p.pull()
		if !ok {
			break
		}

		outs = append(outs, out)
	}

	return outs
}

func (p *pendingOutputs) close() {
	if p.stop == nil {
		return
	}

	p.stop()

	p.next = nil
	p.stop = nil
}
