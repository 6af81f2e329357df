// Package app models the UI application instance: installed plugins, the
// component and route tables, the icon registry and the one-time mount.
package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/icons"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// ErrAlreadyMounted is returned by every Mount call after the first successful one.
var ErrAlreadyMounted = errors.NewStd("application already mounted")

// Plugin extends an Application at install time.
type Plugin interface {
	Name() string
	Install(a *Application) error
}

// Route is one entry of the static route table.
type Route struct {
	Path      string `json:"path"`
	Name      string `json:"name,omitempty"`
	Component string `json:"component,omitempty"`
}

// MountRequest is everything a Mounter needs to render the root view.
type MountRequest struct {
	AppID      string
	Target     string
	APIBase    string
	Endpoints  map[string]string
	Components []string
	Routes     []Route
	Icons      []string
	MountedAt  time.Time
}

// Mounter attaches the root view to its target anchor.
type Mounter interface {
	Mount(ctx context.Context, req MountRequest) error
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(ctx context.Context, req MountRequest) error

func (f MounterFunc) Mount(ctx context.Context, req MountRequest) error { return f(ctx, req) }

// Application is a single UI application instance.
type Application struct {
	id      uuid.UUID
	mounter Mounter
	icons   *icons.Registry
	logger  logger.Logger

	apiBase   string
	endpoints map[string]string

	mu         sync.Mutex
	plugins    []string
	installing string
	components map[string]string // tag -> plugin that registered it
	routes     []Route
	mounted    bool
	target     string
	mountedAt  time.Time
}

// Option configures an Application
type Option func(*Application)

// WithMounter sets the Mounter used by Mount.
func WithMounter(m Mounter) Option {
	return func(a *Application) { a.mounter = m }
}

// WithIcons sets the icon registry. Mount seals it.
func WithIcons(r *icons.Registry) Option {
	return func(a *Application) { a.icons = r }
}

// WithAPI records the API base address and endpoint templates passed to the Mounter.
func WithAPI(base string, endpoints map[string]string) Option {
	return func(a *Application) {
		a.apiBase = base
		a.endpoints = endpoints
	}
}

// WithLogger sets the application logger
func WithLogger(l logger.Logger) Option {
	return func(a *Application) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithID fixes the instance id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(a *Application) { a.id = id }
}

// New constructs an application instance.
func New(opts ...Option) *Application {
	a := &Application{
		id:         uuid.New(),
		icons:      icons.NewRegistry(),
		components: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Global().Module("app")
	}
	return a
}

// ID returns the instance identifier.
func (a *Application) ID() uuid.UUID { return a.id }

// Icons returns the icon registry.
func (a *Application) Icons() *icons.Registry { return a.icons }

// Use installs p. Each plugin name installs at most once, and never after mount.
func (a *Application) Use(p Plugin) error {
	if p == nil {
		return errors.Newf("plugin is nil").
			Component("app").
			Category(errors.CategoryValidation).
			Build()
	}
	name := p.Name()

	a.mu.Lock()
	if a.mounted {
		a.mu.Unlock()
		return errors.Newf("cannot install plugin %s after mount", name).
			Component("app").
			Category(errors.CategoryState).
			Context("plugin", name).
			Build()
	}
	if slices.Contains(a.plugins, name) || a.installing == name {
		a.mu.Unlock()
		return errors.Newf("plugin %s already installed", name).
			Component("app").
			Category(errors.CategoryConflict).
			Context("plugin", name).
			Build()
	}
	if a.installing != "" {
		outer := a.installing
		a.mu.Unlock()
		return errors.Newf("plugin %s installed while %s is installing", name, outer).
			Component("app").
			Category(errors.CategoryState).
			Context("plugin", name).
			Build()
	}
	a.installing = name
	a.mu.Unlock()

	err := p.Install(a)

	a.mu.Lock()
	a.installing = ""
	if err == nil {
		a.plugins = append(a.plugins, name)
	}
	a.mu.Unlock()

	if err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryPlugin).
			Context("plugin", name).
			Build()
	}

	a.logger.Debug("plugin installed", logger.String("plugin", name))
	return nil
}

// Plugins returns installed plugin names in install order.
func (a *Application) Plugins() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.plugins)
}

// Component registers a global component tag. During Use the tag is attributed
// to the installing plugin.
func (a *Application) Component(tag string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if tag == "" {
		return errors.Newf("component tag is empty").
			Component("app").
			Category(errors.CategoryValidation).
			Build()
	}
	if a.mounted {
		return errors.Newf("cannot register component %s after mount", tag).
			Component("app").
			Category(errors.CategoryState).
			Build()
	}
	if owner, ok := a.components[tag]; ok {
		return errors.Newf("component %s already registered by %s", tag, owner).
			Component("app").
			Category(errors.CategoryConflict).
			Context("component", tag).
			Build()
	}

	source := a.installing
	if source == "" {
		source = "app"
	}
	a.components[tag] = source
	return nil
}

// Components returns the registered component tags, sorted.
func (a *Application) Components() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedKeys(a.components)
}

// ComponentSource returns the plugin that registered tag.
func (a *Application) ComponentSource(tag string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	src, ok := a.components[tag]
	return src, ok
}

// AddRoutes appends to the route table. Paths must be unique.
func (a *Application) AddRoutes(routes ...Route) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mounted {
		return errors.Newf("cannot add routes after mount").
			Component("app").
			Category(errors.CategoryState).
			Build()
	}

	merged := slices.Clone(a.routes)
	for _, r := range routes {
		if slices.ContainsFunc(merged, func(existing Route) bool { return existing.Path == r.Path }) {
			return errors.Newf("route %s already defined", r.Path).
				Component("app").
				Category(errors.CategoryConflict).
				Context("route", r.Path).
				Build()
		}
		merged = append(merged, r)
	}
	a.routes = merged
	return nil
}

// Routes returns the route table in insertion order.
func (a *Application) Routes() []Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.routes)
}

// Mount attaches the root view to target. The first call mounts; every later
// call returns ErrAlreadyMounted as a state error. A successful mount seals the
// icon registry; a failed one leaves the application unmounted and the registry
// open.
func (a *Application) Mount(ctx context.Context, target string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mounted {
		return errors.New(ErrAlreadyMounted).
			Component("app").
			Category(errors.CategoryState).
			Context("target", a.target).
			Build()
	}
	if a.mounter == nil {
		return errors.Newf("no mounter configured").
			Component("app").
			Category(errors.CategoryConfiguration).
			Build()
	}

	req := MountRequest{
		AppID:      a.id.String(),
		Target:     target,
		APIBase:    a.apiBase,
		Endpoints:  a.endpoints,
		Components: sortedKeys(a.components),
		Routes:     slices.Clone(a.routes),
		Icons:      a.icons.Keys(),
		MountedAt:  time.Now().UTC(),
	}

	if err := a.mounter.Mount(ctx, req); err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryMount).
			Context("target", target).
			Build()
	}

	a.icons.Seal()
	a.mounted = true
	a.target = target
	a.mountedAt = req.MountedAt
	return nil
}

// Mounted reports whether Mount has succeeded.
func (a *Application) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mounted
}

// MountedAt returns when the application mounted, or the zero time.
func (a *Application) MountedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mountedAt
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
