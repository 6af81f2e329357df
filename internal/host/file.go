package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/events"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// DefaultMinInterval is the FileSource burst window when none is set.
const DefaultMinInterval = 100 * time.Millisecond

// FileSource fires when the sentinel file at Path is created or written during
// Run. A sentinel left over from an earlier session is removed before watching
// starts, and the sentinel is consumed each time it fires. Filesystem events
// closer together than MinInterval raise a single readiness event.
type FileSource struct {
	Path        string
	MinInterval time.Duration
	Logger      logger.Logger
}

func (s *FileSource) Name() string { return "file" }

// Run watches the sentinel's directory, creating it if needed.
func (s *FileSource) Run(ctx context.Context, d Dispatcher, event events.Name) error {
	log := moduleLogger(s.Logger, s.Name())
	target := filepath.Clean(s.Path)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(fmt.Errorf("create sentinel directory: %w", err)).
			Component("host").
			Category(errors.CategoryReadiness).
			Context("path", dir).
			Build()
	}

	if err := os.Remove(target); err == nil {
		log.Info("removed stale readiness sentinel", logger.String("path", target))
	} else if !os.IsNotExist(err) {
		return errors.New(fmt.Errorf("remove stale sentinel: %w", err)).
			Component("host").
			Category(errors.CategoryReadiness).
			Context("path", target).
			Build()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(fmt.Errorf("create watcher: %w", err)).
			Component("host").
			Category(errors.CategoryReadiness).
			Build()
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return errors.New(fmt.Errorf("watch %s: %w", dir, err)).
			Component("host").
			Category(errors.CategoryReadiness).
			Context("path", dir).
			Build()
	}

	log.Info("watching for readiness sentinel", logger.String("path", target))

	interval := s.MinInterval
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	// a sentinel present now was created after the stale one was removed
	if _, err := os.Stat(target); err == nil && limiter.Allow() {
		s.consume(ctx, d, event, target, log)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !limiter.Allow() {
				log.Trace("sentinel event coalesced", logger.String("op", ev.Op.String()))
				continue
			}
			s.consume(ctx, d, event, target, log)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("sentinel watcher error", logger.Error(err))
		}
	}
}

// consume removes the sentinel and raises the readiness event.
func (s *FileSource) consume(ctx context.Context, d Dispatcher, event events.Name, target string, log logger.Logger) {
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove readiness sentinel", logger.String("path", target), logger.Error(err))
	}
	fire(ctx, d, event, s.Name(), log)
}

// Touch creates or updates the sentinel file at path, signalling readiness to
// a FileSource watching it.
func Touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileError(err, path, 0)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // sentinel carries no data
	if err != nil {
		return errors.FileError(err, path, 0)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		_ = f.Close()
		return errors.FileError(err, path, 0)
	}
	return f.Close()
}
