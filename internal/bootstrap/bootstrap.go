// Package bootstrap performs the one-time startup of the picturedesk shell:
// it builds the application, installs its plugins, populates the icon registry
// and defers mounting until the host signals readiness.
package bootstrap

import (
	"context"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/picturedesk/picturedesk/frontend"
	"github.com/picturedesk/picturedesk/internal/apiurl"
	"github.com/picturedesk/picturedesk/internal/app"
	"github.com/picturedesk/picturedesk/internal/conf"
	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/events"
	"github.com/picturedesk/picturedesk/internal/host"
	"github.com/picturedesk/picturedesk/internal/icons"
	"github.com/picturedesk/picturedesk/internal/logger"
	"github.com/picturedesk/picturedesk/internal/mount"
	"github.com/picturedesk/picturedesk/internal/observability"
	"github.com/picturedesk/picturedesk/internal/plugins"
)

const sentryFlushTimeout = 2 * time.Second

var initialized atomic.Bool

// Deps are the collaborators Init would otherwise construct itself.
type Deps struct {
	Frontend fs.FS                  // root document source; defaults to the embedded frontend
	Mounter  app.Mounter            // defaults to a mount.DocumentMounter over Frontend
	Logger   logger.Logger          // defaults to a CentralLogger built from settings
	Metrics  *observability.Metrics // defaults to a fresh private registry
	Sources  []host.Source          // extra readiness sources
	Release  string                 // reported to telemetry
}

// Shell is the initialized application waiting for host readiness.
type Shell struct {
	settings *conf.Settings
	log      logger.Logger
	central  *logger.CentralLogger
	urls     *apiurl.Builder
	bus      *events.Bus
	app      *app.Application
	metrics  *observability.Metrics
	manual   *host.Manual
	sources  []host.Source
	event    events.Name

	startedAt time.Time
	mounted   chan error
}

// Init builds the application from settings. It may be called once per process;
// later calls fail with a state error.
func Init(settings *conf.Settings, deps Deps) (*Shell, error) {
	if settings == nil {
		return nil, errors.Newf("settings are nil").
			Component("bootstrap").
			Category(errors.CategoryValidation).
			Build()
	}
	if !initialized.CompareAndSwap(false, true) {
		return nil, errors.Newf("bootstrap already initialized").
			Component("bootstrap").
			Category(errors.CategoryState).
			Build()
	}

	s, err := newShell(settings, deps)
	if err != nil {
		initialized.Store(false)
		return nil, err
	}
	return s, nil
}

func newShell(settings *conf.Settings, deps Deps) (*Shell, error) {
	s := &Shell{
		settings:  settings,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		event:     events.Name(settings.Host.ReadyEvent),
		startedAt: time.Now(),
		mounted:   make(chan error, 1),
	}
	if s.event == "" {
		s.event = events.HostReady
	}

	if s.log == nil {
		central, err := logger.NewCentralLogger(&settings.Logging)
		if err != nil {
			return nil, errors.New(err).
				Component("bootstrap").
				Category(errors.CategoryConfiguration).
				Context("operation", "init_logger").
				Build()
		}
		logger.SetGlobal(central)
		s.central = central
		s.log = central.Module("bootstrap")
	}

	if settings.Telemetry.Enabled {
		if err := errors.InitSentry(settings.Telemetry.DSN, deps.Release); err != nil {
			s.log.Warn("telemetry disabled", logger.Error(err))
		}
	}

	if s.metrics == nil {
		m, err := observability.NewMetrics()
		if err != nil {
			return nil, err
		}
		s.metrics = m
	}

	s.bus = events.NewBus(
		events.WithLogger(s.log.Module("events")),
		events.WithObserver(s.metrics.Bootstrap),
	)
	if settings.Host.LegacyAlias && s.event != events.LegacyHostReady {
		s.bus.Alias(events.LegacyHostReady, s.event)
	}

	s.urls = apiurl.New(settings.API.BaseURL)

	mounter := deps.Mounter
	if mounter == nil {
		fsys := deps.Frontend
		if fsys == nil {
			fsys = frontend.DistFS
		}
		mounter = &mount.DocumentMounter{
			FS:       fsys,
			Document: settings.UI.Document,
			Output:   settings.OutputPath(),
			Logger:   s.log.Module("mount"),
		}
	}

	s.app = app.New(
		app.WithMounter(mounter),
		app.WithAPI(s.urls.Base(), s.urls.Templates()),
		app.WithLogger(s.log.Module("app")),
	)

	if err := s.installPlugins(); err != nil {
		return nil, err
	}

	if settings.UI.Icons.Enabled && len(settings.UI.Icons.Packs) > 0 {
		n, err := icons.LoadPacks(s.app.Icons(), settings.UI.Icons.Packs...)
		if err != nil {
			return nil, err
		}
		s.log.Debug("icon packs loaded", logger.Int("icons", n))
	}
	s.metrics.Bootstrap.SetIconsRegistered(s.app.Icons().Len())

	s.bus.Once(s.event, s.onReady)

	s.manual = host.NewManual(s.log.Module("host").Module("manual"))
	s.sources = append(s.defaultSources(), deps.Sources...)

	s.log.Info("application initialized, waiting for host",
		logger.String("app_id", s.app.ID().String()),
		logger.String("event", string(s.event)),
		logger.Int("plugins", len(s.app.Plugins())),
		logger.Int("icons", s.app.Icons().Len()))

	return s, nil
}

func (s *Shell) installPlugins() error {
	routes := make([]app.Route, 0, len(s.settings.UI.Routes))
	for _, r := range s.settings.UI.Routes {
		routes = append(routes, app.Route{Path: r.Path, Name: r.Name, Component: r.Component})
	}

	toInstall := []app.Plugin{
		plugins.UILibrary{},
		plugins.Router{Routes: routes},
	}
	if s.settings.UI.Icons.Enabled {
		toInstall = append(toInstall, plugins.IconComponent{Icons: icons.DefaultSet()})
	}

	for _, p := range toInstall {
		err := s.app.Use(p)
		s.metrics.Bootstrap.RecordPluginInstall(p.Name(), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) defaultSources() []host.Source {
	hostLog := s.log.Module("host")
	sources := []host.Source{s.manual}
	if s.settings.Host.Sentinel != "" {
		sources = append(sources, &host.FileSource{Path: s.settings.Host.Sentinel, Logger: hostLog.Module("file")})
	}
	if s.settings.Host.Signal {
		sources = append(sources, &host.SignalSource{Logger: hostLog.Module("signal")})
	}
	return sources
}

// onReady mounts the application. It is registered with Once so it runs for
// the first readiness event only.
func (s *Shell) onReady(ctx context.Context, ev events.Event) error {
	err := s.app.Mount(ctx, s.settings.UI.Target)
	if errors.Is(err, app.ErrAlreadyMounted) {
		return nil
	}
	waited := time.Since(s.startedAt)
	s.metrics.Bootstrap.RecordMount(err, waited)

	if err != nil {
		err = errors.New(err).
			Component("bootstrap").
			Category(errors.CategoryMount).
			Priority(errors.PriorityHigh).
			Context("target", s.settings.UI.Target).
			Timing("readiness_wait", waited).
			Build()
		s.log.Error("mount failed",
			logger.String("target", s.settings.UI.Target),
			logger.String("source", ev.Source),
			logger.Error(err))
	} else {
		s.log.Info("host is ready, app has been mounted",
			logger.String("target", s.settings.UI.Target),
			logger.String("source", ev.Source),
			logger.Duration("waited", waited))
	}

	select {
	case s.mounted <- err:
	default:
	}
	return err
}

// App returns the application instance.
func (s *Shell) App() *app.Application { return s.app }

// Bus returns the host event bus.
func (s *Shell) Bus() *events.Bus { return s.bus }

// URLs returns the API endpoint builder.
func (s *Shell) URLs() *apiurl.Builder { return s.urls }

// Metrics returns the shell's collectors.
func (s *Shell) Metrics() *observability.Metrics { return s.metrics }

// ReadyEvent returns the readiness event name.
func (s *Shell) ReadyEvent() events.Name { return s.event }

// Ready raises the readiness event through the manual source. A call made
// before Run is held and delivered once Run starts.
func (s *Shell) Ready() { s.manual.Fire() }

// Run starts the readiness sources and blocks until the application mounts,
// a source fails or ctx ends. Cancellation before readiness is a clean exit.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	s.log.Debug("starting readiness sources", logger.Any("sources", names))

	sourcesDone := make(chan error, 1)
	go func() {
		sourcesDone <- host.Run(ctx, s.bus, s.event, s.sources...)
	}()

	var result error
	select {
	case err := <-s.mounted:
		result = err
		cancel()
		<-sourcesDone
	case err := <-sourcesDone:
		if err != nil {
			result = errors.New(err).
				Component("bootstrap").
				Category(errors.CategoryReadiness).
				Build()
		}
	case <-ctx.Done():
		<-sourcesDone
		s.log.Info("shutdown requested before host became ready")
	}

	if s.settings.Metrics.Enabled {
		if err := s.metrics.WriteTextfile(s.settings.Metrics.Textfile); err != nil {
			s.log.Warn("failed to write metrics textfile", logger.Error(err))
		}
	}

	return result
}

// Close flushes telemetry and closes the logger Init created.
func (s *Shell) Close() error {
	errors.FlushSentry(sentryFlushTimeout)
	if s.central != nil {
		return s.central.Close()
	}
	return nil
}
