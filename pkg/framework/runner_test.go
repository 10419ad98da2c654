package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error { return f(ctx) }

func TestRunnerAggregatesErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	r := NewRunner().Go(
		runFunc(func(context.Context) error { return errA }),
		NamedRun("b", runFunc(func(context.Context) error { return errB })),
		runFunc(func(context.Context) error { return context.Canceled }),
		runFunc(func(context.Context) error { return nil }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.ElementsMatch(t, []error{errA, errB}, agg.Errors)
}

func TestRunnerNoError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(runFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	errX, errY := errors.New("x"), errors.New("y")
	testCases := []struct {
		name string
		errs []error
		msg  string
	}{
		{"none", []error{nil}, ""},
		{"single", []error{nil, errX}, "x"},
		{"multiple", []error{errX, nil, errY}, "2 errors: x; y"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var errs AggregatedError
			err := errs.Add(tc.errs...).Aggregate()
			if tc.msg == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.msg)
			require.ErrorIs(t, err, errX)
		})
	}
}

func TestRunnerCloseOnExit(t *testing.T) {
	var order []string
	errClose := errors.New("close")
	first := closerFunc(func() error {
		order = append(order, "first")
		return nil
	})
	second := closerFunc(func() error {
		order = append(order, "second")
		return errClose
	})
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).
		Go(runFunc(func(ctx context.Context) error {
			<-ctx.Done()
			order = append(order, "runner")
			return ctx.Err()
		})).
		CloseOnExit(first, second)
	cancel()
	err := r.Wait()
	require.Equal(t, errClose, err)
	require.Equal(t, []string{"runner", "second", "first"}, order)
}

type closer struct {
	closed int
}

func (c *closer) Close() error {
	c.closed++
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{}
	require.NoError(t, RunWithContextCloser(context.Background(), c, func() error { return nil }))
	require.Equal(t, 1, c.closed)

	ctx, cancel := context.WithCancel(context.Background())
	c = &closer{}
	unblock := make(chan struct{})
	cancel()
	err := RunWithContextCloser(ctx, closerFunc(func() error {
		c.closed++
		close(unblock)
		return nil
	}), func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, c.closed)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
