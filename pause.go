package tubes

// A Pause is a handle returned by Fount.PauseFlow.
type Pause interface {
	// Unpause releases this pause. The fount resumes once all of its pauses are released.
	// Calling Unpause a second time returns ErrAlreadyUnpaused.
	Unpause() error
}

// pauser counts outstanding pauses, calling actuallyPause when the first one is taken
// and actuallyResume when the last one is released.
type pauser struct {
	pauses int

	actuallyPause  func()
	actuallyResume func()
}

type pause struct {
	pauser *pauser
	alive  bool
}

// placeholderPause stands in for a pause on a fount that does not exist yet.
type placeholderPause struct{}

func newPauser(actuallyPause func(), actuallyResume func()) *pauser {
	return &pauser{
		actuallyPause:  actuallyPause,
		actuallyResume: actuallyResume,
	}
}

func (p *pauser) pauseFlow() Pause {
	p.pauses++
	if p.pauses == 1 {
		p.actuallyPause()
	}

	return &pause{
		pauser: p,
		alive:  true,
	}
}

func (p *pauser) paused() bool {
	return p.pauses > 0
}

// Unpause implements Pause.
func (p *pause) Unpause() error {
	if !p.alive {
		return ErrAlreadyUnpaused
	}

	p.alive = false

	p.pauser.pauses--
	if p.pauser.pauses == 0 {
		p.pauser.actuallyResume()
	}

	return nil
}

// Unpause implements Pause.
func (placeholderPause) Unpause() error {
	return nil
}
