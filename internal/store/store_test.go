package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/troskovi/internal/log"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func backends(t *testing.T) map[string]Documents {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "files"))
	require.NoError(t, err)

	db, err := OpenSQLite(filepath.Join(dir, "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Documents{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackends_GetMissing(t *testing.T) {
	for name, docs := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := docs.Get(context.Background(), "absent")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBackends_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, docs := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, docs.Set(ctx, "k", []byte(`{"v":1}`)))
			require.NoError(t, docs.Set(ctx, "k", []byte(`{"v":2}`)))

			got, err := docs.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `{"v":2}`, string(got))
		})
	}
}

func TestLoadJSON_Missing(t *testing.T) {
	v := doc{Name: "default"}
	ok, err := LoadJSON(context.Background(), NewMemory(), KeySettings, &v, log.Nop())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "default", v.Name)
}

func TestLoadJSON_MalformedFallsBack(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, KeySettings, []byte("{not json")))

	var buf bytes.Buffer
	logger := log.New(log.Config{Component: log.ComponentStorage, Output: &buf})

	v := doc{Name: "default"}
	ok, err := LoadJSON(ctx, mem, KeySettings, &v, logger)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "default", v.Name)
	assert.Contains(t, buf.String(), "malformed document")
}

func TestSaveAndLoadJSON(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, SaveJSON(ctx, mem, "d", doc{Name: "x", Count: 3}))

	var got doc
	ok, err := LoadJSON(ctx, mem, "d", &got, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc{Name: "x", Count: 3}, got)
}

func TestFile_WritesJSONFileAndNoTemp(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), KeyCategories, []byte("{}")))

	_, err = os.Stat(filepath.Join(dir, "troskovi_categories.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "troskovi_categories.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFile_RejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	err = f.Set(context.Background(), "../escape", []byte("{}"))
	assert.Error(t, err)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "t.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, KeyTransactions, []byte("[]")))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	docs, err := Open(ctx, Options{Backend: BackendFile, Root: root})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data"), docs.(*File).Dir())

	docs, err = Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, docs)

	_, err = Open(ctx, Options{Backend: BackendFirestore})
	assert.ErrorContains(t, err, "project ID")

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestFirestore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	fs, err := OpenFirestore(ctx, "troskovi-test", "test-docs", "")
	require.NoError(t, err)
	defer fs.Close()

	require.NoError(t, fs.Set(ctx, "k", []byte(`[1,2]`)))
	got, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	_, err = fs.Get(ctx, "missing-key")
	assert.ErrorIs(t, err, ErrNotFound)
}
