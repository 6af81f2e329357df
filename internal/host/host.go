// Package host turns host-side facts into readiness events: a sentinel file
// appearing, a POSIX signal, or a programmatic call.
package host

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/picturedesk/picturedesk/internal/events"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// Dispatcher receives readiness events.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event) int
}

// Source raises the readiness event on d until ctx ends. Firing more than once
// is allowed.
type Source interface {
	Name() string
	Run(ctx context.Context, d Dispatcher, event events.Name) error
}

// Run runs every source until ctx ends or one of them fails.
func Run(ctx context.Context, d Dispatcher, event events.Name, sources ...Source) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return src.Run(gctx, d, event)
		})
	}
	return g.Wait()
}

func fire(ctx context.Context, d Dispatcher, event events.Name, source string, log logger.Logger) {
	n := d.Dispatch(ctx, events.New(event, source))
	log.Debug("readiness event raised",
		logger.String("event", string(event)),
		logger.String("source", source),
		logger.Int("listeners", n))
}

func moduleLogger(l logger.Logger, name string) logger.Logger {
	if l != nil {
		return l
	}
	return logger.Global().Module("host").Module(name)
}
