package events

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/logger"
)

func newTestBus(opts ...Option) *Bus {
	opts = append([]Option{WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC))}, opts...)
	return NewBus(opts...)
}

type countingObserver struct {
	mu         sync.Mutex
	dispatched map[string]int
	failed     int
}

func (o *countingObserver) EventDispatched(name string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dispatched == nil {
		o.dispatched = make(map[string]int)
	}
	o.dispatched[name]++
}

func (o *countingObserver) ListenerFailed(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
}

func TestDispatchInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	var order []int
	for i := range 3 {
		bus.On(HostReady, func(context.Context, Event) error {
			order = append(order, i)
			return nil
		})
	}

	n := bus.Dispatch(t.Context(), New(HostReady, "test"))

	assert.Equal(t, 3, n)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestOnceRunsAtMostOnce(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	var calls atomic.Int32
	bus.Once(HostReady, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	assert.Equal(t, 1, bus.Dispatch(t.Context(), New(HostReady, "test")))
	assert.Equal(t, 0, bus.Dispatch(t.Context(), New(HostReady, "test")))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, bus.Listeners(HostReady))
}

func TestOnceUnderConcurrentDispatch(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	var calls atomic.Int32
	bus.Once(HostReady, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			bus.Dispatch(context.Background(), New(HostReady, "race"))
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(32), bus.Stats().EventsDispatched)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	var calls int
	off := bus.On(HostReady, func(context.Context, Event) error {
		calls++
		return nil
	})

	bus.Dispatch(t.Context(), New(HostReady, "test"))
	off()
	bus.Dispatch(t.Context(), New(HostReady, "test"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), bus.Stats().EventsUnheard)
}

func TestAliasReachesCanonicalListeners(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	bus.Alias(LegacyHostReady, HostReady)

	var got Event
	bus.Once(HostReady, func(_ context.Context, ev Event) error {
		got = ev
		return nil
	})

	require.Equal(t, 1, bus.Dispatch(t.Context(), New(LegacyHostReady, "legacy")))
	assert.Equal(t, LegacyHostReady, got.Name)
	assert.Equal(t, "legacy", got.Source)
}

func TestListenerFailuresAreContained(t *testing.T) {
	t.Parallel()

	obs := &countingObserver{}
	bus := newTestBus(WithObserver(obs))

	var reached bool
	bus.On(HostReady, func(context.Context, Event) error { panic("boom") })
	bus.On(HostReady, func(context.Context, Event) error { return fmt.Errorf("failed") })
	bus.On(HostReady, func(context.Context, Event) error {
		reached = true
		return nil
	})

	assert.Equal(t, 3, bus.Dispatch(t.Context(), New(HostReady, "test")))
	assert.True(t, reached)

	stats := bus.Stats()
	assert.Equal(t, uint64(1), stats.ListenerPanics)
	assert.Equal(t, uint64(1), stats.ListenerErrors)
	assert.Equal(t, uint64(3), stats.ListenersInvoked)
	assert.Equal(t, 2, obs.failed)
	assert.Equal(t, 1, obs.dispatched[string(HostReady)])
}

func TestNilListenerIgnored(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	off := bus.On(HostReady, nil)
	off()

	assert.Equal(t, 0, bus.Listeners(HostReady))
}

type recordingReporter struct {
	mu       sync.Mutex
	reported []*errors.EnhancedError
}

func (r *recordingReporter) ReportError(ee *errors.EnhancedError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func (r *recordingReporter) IsEnabled() bool { return true }

func TestListenerFailuresReportedAsEventErrors(t *testing.T) {
	reporter := &recordingReporter{}
	errors.SetTelemetryReporter(reporter)
	t.Cleanup(func() { errors.SetTelemetryReporter(nil) })

	bus := newTestBus()
	bus.On(HostReady, func(context.Context, Event) error { panic("boom") })
	bus.On(HostReady, func(context.Context, Event) error { return fmt.Errorf("failed") })
	bus.Dispatch(t.Context(), New(HostReady, "test"))

	require.Len(t, reporter.reported, 2)
	for _, ee := range reporter.reported {
		assert.Equal(t, errors.CategoryEvent, ee.Category)
		assert.Equal(t, "events", ee.GetComponent())
		assert.Equal(t, string(HostReady), ee.GetContext()["event"])
	}
}

func TestEnhancedListenerErrorsKeepCategory(t *testing.T) {
	reporter := &recordingReporter{}
	errors.SetTelemetryReporter(reporter)
	t.Cleanup(func() { errors.SetTelemetryReporter(nil) })

	bus := newTestBus()
	bus.On(HostReady, func(context.Context, Event) error {
		return errors.Newf("anchor missing").Category(errors.CategoryMount).Build()
	})
	bus.Dispatch(t.Context(), New(HostReady, "test"))

	require.Len(t, reporter.reported, 1)
	assert.Equal(t, errors.CategoryMount, reporter.reported[0].Category)
}
