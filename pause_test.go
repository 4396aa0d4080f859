package tubes

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestPauser(t *testing.T) {
	is := is.New(t)

	pauses, resumes := 0, 0

	p := newPauser(func() { pauses++ }, func() { resumes++ })

	tokens := []Pause{}
	for i := 0; i < 3; i++ {
		tokens = append(tokens, p.pauseFlow())
	}

	is.Equal(pauses, 1)
	is.True(p.paused())

	for i, token := range tokens {
		is.Equal(resumes, 0)
		is.NoErr(token.Unpause())

		if i < len(tokens)-1 {
			is.True(p.paused())
		}
	}

	is.Equal(resumes, 1)
	is.True(!p.paused())
}

func TestPauser_AlreadyUnpaused(t *testing.T) {
	is := is.New(t)

	resumes := 0

	p := newPauser(func() {}, func() { resumes++ })

	first := p.pauseFlow()
	second := p.pauseFlow()

	is.NoErr(first.Unpause())
	is.True(errors.Is(first.Unpause(), ErrAlreadyUnpaused))

	// a double unpause must not release someone else's pause
	is.True(p.paused())
	is.Equal(resumes, 0)

	is.NoErr(second.Unpause())
	is.Equal(resumes, 1)
}

func TestPauser_PauseAgain(t *testing.T) {
	is := is.New(t)

	pauses, resumes := 0, 0

	p := newPauser(func() { pauses++ }, func() { resumes++ })

	is.NoErr(p.pauseFlow().Unpause())
	is.NoErr(p.pauseFlow().Unpause())

	is.Equal(pauses, 2)
	is.Equal(resumes, 2)
}

func TestPauser_ReentrantUnpause(t *testing.T) {
	is := is.New(t)

	var token Pause

	p := newPauser(func() {}, func() {
		is.True(errors.Is(token.Unpause(), ErrAlreadyUnpaused))
	})

	token = p.pauseFlow()

	is.NoErr(token.Unpause())
}

func TestPlaceholderPause(t *testing.T) {
	is := is.New(t)

	p := placeholderPause{}

	is.NoErr(p.Unpause())
	is.NoErr(p.Unpause())
}
