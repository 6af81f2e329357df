package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/icons"
	"github.com/picturedesk/picturedesk/internal/logger"
)

type stubPlugin struct {
	name    string
	install func(a *Application) error
}

func (p stubPlugin) Name() string { return p.name }

func (p stubPlugin) Install(a *Application) error {
	if p.install == nil {
		return nil
	}
	return p.install(a)
}

type recordingMounter struct {
	calls atomic.Int32
	last  MountRequest
	err   error
}

func (m *recordingMounter) Mount(_ context.Context, req MountRequest) error {
	m.calls.Add(1)
	m.last = req
	return m.err
}

func newTestApp(opts ...Option) *Application {
	opts = append([]Option{WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC))}, opts...)
	return New(opts...)
}

func TestUseInstallsOncePerName(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	require.NoError(t, a.Use(stubPlugin{name: "ui"}))
	require.NoError(t, a.Use(stubPlugin{name: "router"}))

	err := a.Use(stubPlugin{name: "ui"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))
	assert.Equal(t, []string{"ui", "router"}, a.Plugins())
}

func TestFailedInstallIsNotRecorded(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	err := a.Use(stubPlugin{name: "broken", install: func(*Application) error { return fmt.Errorf("nope") }})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryPlugin))
	assert.Empty(t, a.Plugins())

	require.NoError(t, a.Use(stubPlugin{name: "broken"}))
}

func TestComponentsAttributedToPlugin(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	require.NoError(t, a.Use(stubPlugin{name: "ui", install: func(a *Application) error {
		return a.Component("el-button")
	}}))
	require.NoError(t, a.Component("gallery-grid"))

	src, ok := a.ComponentSource("el-button")
	require.True(t, ok)
	assert.Equal(t, "ui", src)
	src, _ = a.ComponentSource("gallery-grid")
	assert.Equal(t, "app", src)

	err := a.Component("el-button")
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))
	assert.Equal(t, []string{"el-button", "gallery-grid"}, a.Components())
}

func TestRoutesMustBeUnique(t *testing.T) {
	t.Parallel()

	a := newTestApp()
	require.NoError(t, a.AddRoutes(Route{Path: "/"}, Route{Path: "/albums"}))
	err := a.AddRoutes(Route{Path: "/albums"})
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))
	assert.Len(t, a.Routes(), 2)
}

func TestMountOnce(t *testing.T) {
	t.Parallel()

	m := &recordingMounter{}
	reg := icons.NewRegistry()
	require.NoError(t, reg.AddAll(icons.DefaultSet()...))
	id := uuid.MustParse("9b2f6c1e-4a0d-4c58-9a43-3f3e2d1c0b0a")

	a := newTestApp(
		WithMounter(m),
		WithIcons(reg),
		WithID(id),
		WithAPI("http://localhost:8324/api", map[string]string{"health": "http://localhost:8324/api/health"}),
	)
	require.NoError(t, a.Use(stubPlugin{name: "router", install: func(a *Application) error {
		return a.AddRoutes(Route{Path: "/", Name: "gallery"})
	}}))

	require.NoError(t, a.Mount(t.Context(), "#app"))
	assert.True(t, a.Mounted())
	assert.False(t, a.MountedAt().IsZero())
	assert.True(t, reg.Sealed())

	assert.Equal(t, id.String(), m.last.AppID)
	assert.Equal(t, "#app", m.last.Target)
	assert.Equal(t, "http://localhost:8324/api", m.last.APIBase)
	assert.Len(t, m.last.Icons, 22)
	assert.Equal(t, []Route{{Path: "/", Name: "gallery"}}, m.last.Routes)

	err := a.Mount(t.Context(), "#app")
	require.ErrorIs(t, err, ErrAlreadyMounted)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))
	assert.Equal(t, int32(1), m.calls.Load())
}

func TestConcurrentMountCallsMounterOnce(t *testing.T) {
	t.Parallel()

	m := &recordingMounter{}
	a := newTestApp(WithMounter(m))

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for range 16 {
		wg.Go(func() {
			if a.Mount(context.Background(), "#app") == nil {
				succeeded.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), m.calls.Load())
	assert.Equal(t, int32(1), succeeded.Load())
}

func TestMutationsAfterMountFail(t *testing.T) {
	t.Parallel()

	a := newTestApp(WithMounter(&recordingMounter{}))
	require.NoError(t, a.Mount(t.Context(), "#app"))

	assert.True(t, errors.IsCategory(a.Use(stubPlugin{name: "late"}), errors.CategoryState))
	assert.True(t, errors.IsCategory(a.Component("late-tag"), errors.CategoryState))
	assert.True(t, errors.IsCategory(a.AddRoutes(Route{Path: "/late"}), errors.CategoryState))
	assert.True(t, errors.IsCategory(a.Icons().Add(icons.Definition{Prefix: "fas", Name: "x", Codepoint: "f000"}), errors.CategoryState))
}

func TestFailedMountLeavesUnmounted(t *testing.T) {
	t.Parallel()

	m := &recordingMounter{err: fmt.Errorf("anchor missing")}
	a := newTestApp(WithMounter(m))

	err := a.Mount(t.Context(), "#app")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryMount))
	assert.False(t, a.Mounted())
	assert.False(t, a.Icons().Sealed())
	assert.NoError(t, a.Icons().Add(icons.Definition{Prefix: "fas", Name: "retry", Codepoint: "f01e"}))
}

func TestMountWithoutMounter(t *testing.T) {
	t.Parallel()

	err := newTestApp().Mount(t.Context(), "#app")
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestMounterFunc(t *testing.T) {
	t.Parallel()

	var got string
	a := newTestApp(WithMounter(MounterFunc(func(_ context.Context, req MountRequest) error {
		got = req.Target
		return nil
	})))
	require.NoError(t, a.Mount(t.Context(), "#root"))
	assert.Equal(t, "#root", got)
}
