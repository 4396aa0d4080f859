package tubes

import (
	"testing"

	"github.com/matryer/is"
)

func TestFuture_Resolve(t *testing.T) {
	is := is.New(t)

	f := NewFuture()

	results := []any{}
	f.OnComplete(func(value any, err error) {
		is.NoErr(err)
		results = append(results, value)
	})

	is.True(!f.Done())
	is.Equal(len(results), 0)

	is.True(f.Resolve(42))
	is.True(f.Done())
	is.Equal(results, []any{42})

	is.True(!f.Resolve(43))
	is.True(!f.Reject(errBoom))
	is.Equal(results, []any{42})
}

func TestFuture_OnCompleteAfterResolve(t *testing.T) {
	is := is.New(t)

	f := Resolved("done")

	called := false
	f.OnComplete(func(value any, err error) {
		is.NoErr(err)
		is.Equal(value, "done")

		called = true
	})

	is.True(called)
}

func TestFuture_Reject(t *testing.T) {
	is := is.New(t)

	f := Rejected(errBoom)

	var got error
	f.OnComplete(func(_ any, err error) {
		got = err
	})

	is.Equal(got, errBoom)
}

func TestFuture_CallbackOrder(t *testing.T) {
	is := is.New(t)

	f := NewFuture()

	order := []int{}
	for i := 0; i < 3; i++ {
		i := i
		f.OnComplete(func(_ any, _ error) {
			order = append(order, i)
		})
	}

	f.Resolve(nil)

	is.Equal(order, []int{0, 1, 2})
}
