package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSlogLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelInfo, time.UTC)

	log.Debug("hidden")
	log.Info("visible", String("class", "eggshells"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "class=eggshells")
}

func TestModuleNamesAreHierarchical(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelDebug, time.UTC).Module("session").Module("rewards")

	log.Debug("credited", Int("amount", 10))

	assert.Contains(t, buf.String(), "module=session.rewards")
	assert.Contains(t, buf.String(), "amount=10")
}

func TestWithAccumulatesFieldsWithoutMutatingParent(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := NewSlogLogger(buf, LogLevelDebug, time.UTC)
	child := parent.With(String("session_id", "abc"))

	parent.Info("from parent")
	child.Info("from child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "session_id")
	assert.Contains(t, lines[1], "session_id=abc")
}

func TestWithContextAddsTraceID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelDebug, time.UTC)

	log.WithContext(WithTraceID(context.Background(), "req-1234")).Info("handled")
	log.WithContext(context.Background()).Info("untraced")

	assert.Contains(t, buf.String(), "trace_id=req-1234")
	assert.Equal(t, 1, strings.Count(buf.String(), "trace_id"))
}

func TestTraceLevelName(t *testing.T) {
	buf := &bytes.Buffer{}
	NewSlogLogger(buf, LogLevelTrace, time.UTC).Trace("sql query")

	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestCentralLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cl, err := NewCentralLogger(&LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      &ConsoleOutput{Enabled: false},
		FileOutput:   &FileOutput{Enabled: true, Path: path, Level: "debug"},
		ModuleLevels: map[string]string{"datastore": "warn"},
	})
	require.NoError(t, err)

	cl.Module("forum").Info("idea submitted", String("author", "Alice"))
	cl.Module("datastore").Info("suppressed by module level")
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "idea submitted", entry["msg"])
	assert.Equal(t, "forum", entry["module"])
	assert.Equal(t, "Alice", entry["author"])
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	_, err := NewCentralLogger(&LoggingConfig{Timezone: "Mars/Olympus_Mons"})
	assert.Error(t, err)
}

func TestGormAdapterTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	adapter := NewGormLoggerAdapter(NewSlogLogger(buf, LogLevelInfo, time.UTC), 50*time.Millisecond)

	sql := func() (string, int64) { return "SELECT * FROM community_ideas", 2 }

	adapter.Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "normal queries log at trace level")

	adapter.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	adapter.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow query")
}
