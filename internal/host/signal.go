package host

import (
	"context"
	"os"
	"os/signal"

	"github.com/picturedesk/picturedesk/internal/events"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// SignalSource fires each time one of Signals is received. With no Signals it
// listens for ReadySignals.
type SignalSource struct {
	Signals []os.Signal
	Logger  logger.Logger
}

func (s *SignalSource) Name() string { return "signal" }

func (s *SignalSource) Run(ctx context.Context, d Dispatcher, event events.Name) error {
	log := moduleLogger(s.Logger, s.Name())

	sigs := s.Signals
	if len(sigs) == 0 {
		sigs = ReadySignals()
	}
	if len(sigs) == 0 {
		log.Debug("no readiness signals on this platform")
		<-ctx.Done()
		return nil
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-ch:
			log.Debug("readiness signal received", logger.String("signal", sig.String()))
			fire(ctx, d, event, s.Name(), log)
		}
	}
}
