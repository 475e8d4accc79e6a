package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuilderContext(t *testing.T) {
	ee := Newf("insert failed for %s", "community_ideas").
		Component("datastore").
		Category(CategoryDatabase).
		Context("table", "community_ideas").
		Timing("save_idea", 15*time.Millisecond).
		Build()

	assert.Equal(t, "datastore", ee.GetComponent())
	assert.True(t, IsCategory(ee, CategoryDatabase))

	ctx := ee.GetContext()
	assert.Equal(t, "community_ideas", ctx["table"])
	assert.Equal(t, "save_idea", ctx["operation"])
	assert.Equal(t, int64(15), ctx["duration_ms"])

	// returned map is a copy
	ctx["table"] = "changed"
	assert.Equal(t, "community_ideas", ee.GetContext()["table"])
}

func TestSentinelMatchingThroughEnhancedError(t *testing.T) {
	sentinel := NewStd("name must not be empty")
	wrapped := New(sentinel).Category(CategoryValidation).Build()

	require.ErrorIs(t, wrapped, sentinel)
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsCategory(wrapped, CategoryNotFound))

	outer := fmt.Errorf("login: %w", wrapped)
	assert.ErrorIs(t, outer, sentinel)
	assert.True(t, IsValidation(outer))
}

func TestCategoryInheritedFromWrappedError(t *testing.T) {
	inner := New(NewStd("no rows")).Category(CategoryNotFound).Build()
	outer := New(fmt.Errorf("lookup: %w", inner)).Build()

	assert.Equal(t, CategoryNotFound, outer.Category)
	assert.Equal(t, string(CategoryNotFound), outer.GetCategory())
}

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) { r.reported = append(r.reported, ee) }
func (r *recordingReporter) IsEnabled() bool               { return true }

func TestReporterReceivesBuiltErrors(t *testing.T) {
	rec := &recordingReporter{}
	SetTelemetryReporter(rec)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	New(NewStd("model file missing")).Category(CategoryModelLoad).Build()

	require.Len(t, rec.reported, 1)
	assert.Equal(t, CategoryModelLoad, rec.reported[0].Category)
	assert.Equal(t, ComponentUnknown, rec.reported[0].GetComponent())
}

func TestScrubMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"query string", "GET https://translate.example.com/translate?api_key=abc failed", "GET https://translate.example.com/translate?[REDACTED] failed"},
		{"inline token", "auth failed token=abc123", "auth failed token=[REDACTED]"},
		{"clean message", "database is locked", "database is locked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrubMessage(tt.input))
		})
	}
}

func TestErrorTitle(t *testing.T) {
	assert.Equal(t, "Classifier Model Loading Error", errorTitle("classifier", CategoryModelLoad))
	assert.Equal(t, "Http Controller Http Request Error", errorTitle("http-controller", CategoryHTTP))
}
