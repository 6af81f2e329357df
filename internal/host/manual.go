package host

import (
	"context"

	"github.com/picturedesk/picturedesk/internal/events"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// Manual fires whenever Fire is called. Calls made while a previous one is
// still pending are coalesced.
type Manual struct {
	fires  chan struct{}
	logger logger.Logger
}

// NewManual returns a Manual source. A nil logger uses the global one.
func NewManual(l logger.Logger) *Manual {
	return &Manual{fires: make(chan struct{}, 1), logger: l}
}

func (m *Manual) Name() string { return "manual" }

// Fire requests a readiness event. It never blocks.
func (m *Manual) Fire() {
	select {
	case m.fires <- struct{}{}:
	default:
	}
}

func (m *Manual) Run(ctx context.Context, d Dispatcher, event events.Name) error {
	log := moduleLogger(m.logger, m.Name())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.fires:
			fire(ctx, d, event, m.Name(), log)
		}
	}
}
