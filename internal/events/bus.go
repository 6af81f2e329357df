package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/logger"
)

type subscription struct {
	id       uint64
	listener Listener
	once     bool
	fired    atomic.Bool
}

// Bus dispatches named events to registered listeners, synchronously and in
// registration order. A listener panic is recovered and counted.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Name][]*subscription
	aliases   map[Name]Name
	nextID    uint64

	observer Observer
	logger   logger.Logger

	dispatched atomic.Uint64
	unheard    atomic.Uint64
	invoked    atomic.Uint64
	errored    atomic.Uint64
	panicked   atomic.Uint64
}

// Option configures a Bus
type Option func(*Bus)

// WithLogger sets the bus logger
func WithLogger(l logger.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithObserver sets an observer notified after every dispatch
func WithObserver(o Observer) Option {
	return func(b *Bus) {
		b.observer = o
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[Name][]*subscription),
		aliases:   make(map[Name]Name),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Global().Module("events")
	}
	return b
}

// Alias makes events dispatched as alias reach listeners of canonical.
func (b *Bus) Alias(alias, canonical Name) {
	if alias == canonical {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aliases[alias] = canonical
}

func (b *Bus) resolveLocked(name Name) Name {
	if canonical, ok := b.aliases[name]; ok {
		return canonical
	}
	return name
}

// On registers listener for name and returns a function that removes it.
func (b *Bus) On(name Name, listener Listener) (unsubscribe func()) {
	return b.subscribe(name, listener, false)
}

// Once registers listener for a single invocation. However many times the
// event is dispatched, even concurrently, the listener runs at most once.
func (b *Bus) Once(name Name, listener Listener) (unsubscribe func()) {
	return b.subscribe(name, listener, true)
}

func (b *Bus) subscribe(name Name, listener Listener, once bool) func() {
	if listener == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	name = b.resolveLocked(name)
	b.nextID++
	sub := &subscription{id: b.nextID, listener: listener, once: once}
	b.listeners[name] = append(b.listeners[name], sub)

	b.logger.Debug("listener registered",
		logger.String("event", string(name)),
		logger.Bool("once", once))

	return func() { b.remove(name, sub.id) }
}

func (b *Bus) remove(name Name, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[name] = slices.DeleteFunc(b.listeners[name], func(s *subscription) bool {
		return s.id == id
	})
	if len(b.listeners[name]) == 0 {
		delete(b.listeners, name)
	}
}

// Listeners returns the number of listeners currently registered for name.
func (b *Bus) Listeners(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[b.resolveLocked(name)])
}

// Dispatch delivers ev to the listeners registered for its name and returns
// how many listeners were invoked.
func (b *Bus) Dispatch(ctx context.Context, ev Event) int {
	b.mu.RLock()
	name := b.resolveLocked(ev.Name)
	subs := slices.Clone(b.listeners[name])
	b.mu.RUnlock()

	b.dispatched.Add(1)
	if len(subs) == 0 {
		b.unheard.Add(1)
		b.logger.Debug("event dispatched with no listeners",
			logger.String("event", string(ev.Name)),
			logger.String("source", ev.Source))
		b.notify(string(name), 0)
		return 0
	}

	invoked := 0
	for _, sub := range subs {
		if sub.once {
			if !sub.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(name, sub.id)
		}
		b.invoke(ctx, name, ev, sub)
		invoked++
	}

	b.logger.Debug("event dispatched",
		logger.String("event", string(ev.Name)),
		logger.String("source", ev.Source),
		logger.Int("listeners", invoked))
	b.notify(string(name), invoked)

	return invoked
}

func (b *Bus) invoke(ctx context.Context, name Name, ev Event, sub *subscription) {
	b.invoked.Add(1)

	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			b.failed(string(name))
			err := errors.Newf("listener for %s panicked: %v", name, r).
				Component("events").
				Category(errors.CategoryEvent).
				Context("event", string(name)).
				Context("source", ev.Source).
				Build()
			b.logger.Error("listener panicked",
				logger.String("event", string(name)),
				logger.Error(err))
		}
	}()

	if err := sub.listener(ctx, ev); err != nil {
		b.errored.Add(1)
		b.failed(string(name))
		var ee *errors.EnhancedError
		if !errors.As(err, &ee) {
			err = errors.New(err).
				Component("events").
				Category(errors.CategoryEvent).
				Context("event", string(name)).
				Build()
		}
		b.logger.Warn("listener returned error",
			logger.String("event", string(name)),
			logger.Error(err))
	}
}

func (b *Bus) notify(name string, listeners int) {
	if b.observer != nil {
		b.observer.EventDispatched(name, listeners)
	}
}

func (b *Bus) failed(name string) {
	if b.observer != nil {
		b.observer.ListenerFailed(name)
	}
}

// Stats returns current bus statistics
func (b *Bus) Stats() Stats {
	return Stats{
		EventsDispatched: b.dispatched.Load(),
		EventsUnheard:    b.unheard.Load(),
		ListenersInvoked: b.invoked.Load(),
		ListenerErrors:   b.errored.Load(),
		ListenerPanics:   b.panicked.Load(),
	}
}
