package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

type recordAdder struct {
	t     *testing.T
	order *[]int
}

func (a recordAdder) AddToLoop(l *Loop) {
	for _, lv := range []int{PrLvPostProc, PrLvSense, PrLvControl} {
		lv := lv
		l.AddController(lv, ControlFunc(func(cc ControlContext) error {
			require.Equal(a.t, lv, cc.PriorityLevel())
			*a.order = append(*a.order, lv)
			return nil
		}))
	}
}

func TestStepOrder(t *testing.T) {
	var order []int
	l := NewLoop().Add(recordAdder{t: t, order: &order})
	l.Step(context.Background())
	require.Equal(t, []int{PrLvSense, PrLvControl, PrLvPostProc}, order)
}

func TestStepContext(t *testing.T) {
	mock := clock.NewMock()
	l := NewLoop()
	l.Clock = mock
	var seen []uint64
	var times []time.Time
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		seen = append(seen, cc.Iteration())
		times = append(times, cc.Time())
		require.NotNil(t, LoopCtlFrom(cc.Context()))
		return errors.New("logged, not fatal")
	}))
	l.Step(context.Background())
	mock.Add(time.Second)
	l.Step(context.Background())
	require.Equal(t, []uint64{1, 2}, seen)
	require.Equal(t, time.Second, times[1].Sub(times[0]))
}

type countRunner struct {
	started chan struct{}
	lc      LoopControl
}

func (r *countRunner) Run(ctx context.Context) error {
	r.lc = LoopCtlFrom(ctx)
	close(r.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestRunTicksAndTriggers(t *testing.T) {
	mock := clock.NewMock()
	l := NewLoop()
	l.Clock = mock
	l.Interval = 10 * time.Millisecond
	stepCh := make(chan uint64, 16)
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		stepCh <- cc.Iteration()
		return nil
	}))
	r := &countRunner{started: make(chan struct{})}
	l.AddRunnable(r)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	<-r.started
	require.Equal(t, LoopControl(l), r.lc)
	r.lc.TriggerNext()
	select {
	case n := <-stepCh:
		require.Equal(t, uint64(1), n)
	case <-time.After(time.Second):
		t.Fatal("triggered iteration not executed")
	}

	mock.Add(10 * time.Millisecond)
	select {
	case n := <-stepCh:
		require.Equal(t, uint64(2), n)
	case <-time.After(time.Second):
		t.Fatal("ticked iteration not executed")
	}

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestLoopCtlFromPlainContext(t *testing.T) {
	require.Nil(t, LoopCtlFrom(context.Background()))
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errors.New("a"))
	require.EqualError(t, errs.Aggregate(), "a")
	errs.Add(errors.New("b"))
	require.EqualError(t, errs.Aggregate(), "multiple errors:\n  a\n  b")
}
