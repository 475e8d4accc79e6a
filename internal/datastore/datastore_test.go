package datastore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/taxonomy"
)

func createDatabase(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "waste_management.db")

	store := &SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type opRecorder struct {
	mu  sync.Mutex
	ops map[string][]string
}

func (r *opRecorder) RecordDBOperation(operation, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ops == nil {
		r.ops = map[string][]string{}
	}
	r.ops[operation] = append(r.ops[operation], status)
}

func TestNew_SelectsBackend(t *testing.T) {
	t.Parallel()

	s := &conf.Settings{}
	_, err := New(s)
	require.Error(t, err)

	s.Output.SQLite.Enabled = true
	store, err := New(s)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	s = &conf.Settings{}
	s.Output.MySQL.Enabled = true
	store, err = New(s)
	require.NoError(t, err)
	assert.IsType(t, &MySQLStore{}, store)
}

func TestSaveAndListIdeas(t *testing.T) {
	t.Parallel()

	store := createDatabase(t)
	ctx := context.Background()

	first := &CommunityIdea{Author: "Jane", Idea: "Turn bottles into planters"}
	second := &CommunityIdea{Author: "Ravi", Idea: "Jar lanterns"}
	require.NoError(t, store.SaveIdea(ctx, first))
	require.NoError(t, store.SaveIdea(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	ideas, err := store.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "Jane", ideas[0].Author)
	assert.Equal(t, "Jar lanterns", ideas[1].Idea)
}

func TestListIdeas_DuplicatesKept(t *testing.T) {
	t.Parallel()

	store := createDatabase(t)
	ctx := context.Background()
	for range 3 {
		require.NoError(t, store.SaveIdea(ctx, &CommunityIdea{Author: "A", Idea: "same"}))
	}
	ideas, err := store.ListIdeas(ctx)
	require.NoError(t, err)
	assert.Len(t, ideas, 3)
}

func TestSaveIdea_RejectsBlankFields(t *testing.T) {
	t.Parallel()

	store := createDatabase(t)
	rec := &opRecorder{}
	store.SetRecorder(rec)

	err := store.SaveIdea(context.Background(), &CommunityIdea{Author: "  ", Idea: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	ideas, err := store.ListIdeas(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ideas)
	assert.Equal(t, []string{"error"}, rec.ops["save_idea"])
	assert.Equal(t, []string{"success"}, rec.ops["list_ideas"])
}

func TestMigration_SeedsOnceAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := createDatabase(t)
	ctx := context.Background()

	want := 0
	for _, c := range taxonomy.Categories() {
		want += len(taxonomy.SuggestionsFor(c))
	}
	n, err := store.CountWasteData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(want), n)

	require.NoError(t, performAutoMigration(store.DB, "SQLite", "test"))
	n, err = store.CountWasteData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(want), n)

	var row WasteData
	require.NoError(t, store.DB.Where("waste_type = ?", "Organic Waste").First(&row).Error)
	assert.Equal(t, "Disposable", row.Description)
}

func TestReopenKeepsIdeas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ideas.db")
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = path

	store := &SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	require.NoError(t, store.SaveIdea(context.Background(), &CommunityIdea{Author: "Jane", Idea: "Compost tea"}))
	require.NoError(t, store.Close())

	reopened := &SQLiteStore{Settings: settings}
	require.NoError(t, reopened.Open())
	t.Cleanup(func() { _ = reopened.Close() })

	ideas, err := reopened.ListIdeas(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Compost tea", ideas[0].Idea)
}

func TestUnopenedStore(t *testing.T) {
	t.Parallel()

	store := &SQLiteStore{}
	_, err := store.ListIdeas(context.Background())
	require.Error(t, err)
	require.Error(t, store.Close())
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	s := &conf.Settings{}
	s.Output.MySQL.Username = "waste"
	s.Output.MySQL.Password = "p@ss:word"
	s.Output.MySQL.Host = "db.local"
	s.Output.MySQL.Port = "3306"
	s.Output.MySQL.Database = "smartwaste"

	dsn := (&MySQLStore{Settings: s}).dsn()
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "p@ss:word", cfg.Passwd)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "smartwaste", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestClassifyDBError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, "busy"},
		{"sqlite constraint", fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint}), "constraint"},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, "constraint"},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, "locked"},
		{"other", fmt.Errorf("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classifyDBError(tt.err))
		})
	}

	busy := dbError(sqlite3.Error{Code: sqlite3.ErrBusy}, "save_idea")
	assert.True(t, errors.IsCategory(busy, errors.CategoryTimeout))
}
