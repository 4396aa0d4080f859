package tubes

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestProduce(t *testing.T) {
	is := is.New(t)

	ints := Produce([]int{1, 2}, []int{3, 4, 5})
	fd := &fakeDrain{}

	_, err := ints.FlowTo(fd)
	is.NoErr(err)

	is.Equal(fd.received, []any{1, 2, 3, 4, 5})
	is.Equal(fd.stops, []error{ErrFlowEnded})
	is.True(ints.Finished())
}

func TestProduce_Pause(t *testing.T) {
	is := is.New(t)

	ints := Produce([]int{1, 2, 3})

	var p Pause

	fd := &fakeDrain{}
	fd.onReceive = func(item any) {
		if item == 2 {
			p = ints.PauseFlow()
		}
	}

	_, err := ints.FlowTo(fd)
	is.NoErr(err)

	is.Equal(fd.received, []any{1, 2})
	is.True(ints.Paused())
	is.True(!ints.Finished())

	is.NoErr(p.Unpause())

	is.Equal(fd.received, []any{1, 2, 3})
	is.Equal(fd.stops, []error{ErrFlowEnded})
}

func TestProduceSeq_Lazy(t *testing.T) {
	is := is.New(t)

	pulled := 0

	ints := ProduceSeq(func(yield func(int) bool) {
		for i := 1; ; i++ {
			pulled++

			if !yield(i) {
				return
			}
		}
	})

	is.Equal(pulled, 0)

	fd := &fakeDrain{}
	fd.onReceive = func(_ any) {
		_ = ints.PauseFlow()
	}

	_, err := ints.FlowTo(fd)
	is.NoErr(err)

	is.Equal(pulled, 1)
	is.Equal(fd.received, []any{1})
}

func TestIterFount_StopFlow(t *testing.T) {
	is := is.New(t)

	ints := Produce([]int{1, 2, 3})

	fd := &fakeDrain{}
	fd.onReceive = func(_ any) {
		ints.StopFlow()
	}

	_, err := ints.FlowTo(fd)
	is.NoErr(err)

	is.Equal(fd.received, []any{1})
	is.Equal(fd.stops, []error{ErrStopFlowCalled})
	is.True(ints.Finished())

	ints.StopFlow()
	is.Equal(len(fd.stops), 1)
}

func TestIterFount_TypeMismatch(t *testing.T) {
	is := is.New(t)

	ints := Produce([]int{1})

	_, err := ints.FlowTo(&fakeDrain{inputType: TypeOf[string]()})
	is.True(errors.Is(err, ErrTypeMismatch))

	is.True(ints.Drain() == nil)
	is.True(!ints.Finished())
}

func TestIterFount_FlowToOther(t *testing.T) {
	is := is.New(t)

	ints := Produce([]int{1, 2})

	fd1 := &fakeDrain{}
	fd1.onReceive = func(_ any) {
		_ = ints.PauseFlow()
	}

	_, err := ints.FlowTo(fd1)
	is.NoErr(err)

	is.Equal(fd1.received, []any{1})
	is.Equal(fd1.fount, ints)

	fd2 := &fakeDrain{}

	_, err = ints.FlowTo(fd2)
	is.NoErr(err)

	is.True(fd1.fount == nil)
	is.Equal(fd2.fount, ints)
	is.Equal(len(fd2.received), 0)
}
