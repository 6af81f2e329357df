package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func (r *recordingReporter) IsEnabled() bool { return true }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.IsReported())
}

func TestBuilderCarriesContext(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := Newf("anchor %q not found", "#app").
		Component("mount").
		Category(CategoryNotFound).
		Priority("bogus").
		Context("selector", "#app").
		Build()

	assert.Equal(t, "mount", ee.GetComponent())
	assert.Equal(t, PriorityMedium, ee.GetPriority())
	assert.Equal(t, "#app", ee.GetContext()["selector"])
	assert.True(t, IsNotFound(ee))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ee)))
}

func TestGetContextReturnsCopy(t *testing.T) {
	ee := New(NewStd("x")).Context("k", "v").Build()

	ctx := ee.GetContext()
	ctx["k"] = "changed"

	assert.Equal(t, "v", ee.GetContext()["k"])
}

func TestDetectCategoryFromMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorCategory
	}{
		{"icon fas:camera not found", CategoryNotFound},
		{"plugin router already installed", CategoryConflict},
		{"failed to parse document", CategoryFileParsing},
		{"cannot open file", CategoryFileIO},
		{"invalid selector", CategoryValidation},
		{"something else", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCategory(NewStd(tt.msg)))
		})
	}
}

func TestIsMatchesCategory(t *testing.T) {
	a := New(NewStd("a")).Category(CategoryState).Build()
	b := New(NewStd("b")).Category(CategoryState).Build()
	c := New(NewStd("c")).Category(CategoryConflict).Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestReporterReceivesErrors(t *testing.T) {
	reporter := &recordingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("mount failed")).Category(CategoryMount).Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.True(t, ee.IsReported())
}

func TestBasicURLScrub(t *testing.T) {
	scrubbed := basicURLScrub("Error at https://api.example.com?api_key=secret123&token=abc")
	assert.Equal(t, "Error at https://api.example.com?[REDACTED]", scrubbed)

	scrubbed = basicURLScrub("Config error: api_key=secret123 is invalid")
	assert.Contains(t, scrubbed, "[API_KEY_REDACTED]")
	assert.False(t, strings.Contains(scrubbed, "secret123"))
}

func TestGenerateErrorTitle(t *testing.T) {
	ee := New(NewStd("boom")).
		Component("mount").
		Category(CategoryMount).
		Context("operation", "write_document").
		Build()

	assert.Equal(t, "Mount Mount Error Write Document", generateErrorTitle(ee))
}

func TestErrorLevelPrefersPriority(t *testing.T) {
	tests := []struct {
		name     string
		category ErrorCategory
		priority string
		want     sentry.Level
	}{
		{"category only", CategoryReadiness, "", sentry.LevelWarning},
		{"state is informational", CategoryState, "", sentry.LevelInfo},
		{"high overrides category", CategoryReadiness, PriorityHigh, sentry.LevelError},
		{"critical is fatal", CategoryMount, PriorityCritical, sentry.LevelFatal},
		{"low overrides error", CategoryMount, PriorityLow, sentry.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ee := New(NewStd("x")).Category(tt.category).Priority(tt.priority).Build()
			assert.Equal(t, tt.want, getErrorLevel(ee))
		})
	}
}

func TestTimingAndTimestamp(t *testing.T) {
	before := time.Now()
	ee := New(NewStd("mount failed")).Timing("readiness_wait", 1500*time.Millisecond).Build()

	assert.Equal(t, "mount failed", ee.GetMessage())
	assert.Equal(t, "readiness_wait", ee.GetContext()["operation"])
	assert.Equal(t, int64(1500), ee.GetContext()["duration_ms"])
	assert.False(t, ee.GetTimestamp().Before(before))
}
