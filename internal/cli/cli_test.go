package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/relations"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestInitDataCommand_ParseFlags(t *testing.T) {
	t.Run("default directory", func(t *testing.T) {
		t.Setenv("DATA_DIR", "")
		cmd := NewInitDataCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, config.DefaultDataDir, cmd.DataDir)
	})

	t.Run("DATA_DIR", func(t *testing.T) {
		t.Setenv("DATA_DIR", "/srv/books")
		cmd := NewInitDataCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, "/srv/books", cmd.DataDir)
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("DATA_DIR", "/srv/books")
		cmd := NewInitDataCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-dir", "/tmp/books"}))
		assert.Equal(t, "/tmp/books", cmd.DataDir)
	})

	t.Run("DATA_DIR shared with reconcile", func(t *testing.T) {
		t.Setenv("DATA_DIR", "/srv/books")
		cmd := NewReconcileCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, "/srv/books", cmd.DataDir)
	})

	t.Run("empty directory", func(t *testing.T) {
		cmd := NewInitDataCommand()
		assert.Error(t, cmd.ParseFlags([]string{"-dir", ""}))
	})
}

func TestInitDataCommand_Run(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	users := `[{"id":"u1","name":"Ann","email":"ann@example.com"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(users), 0o644))

	var out bytes.Buffer
	cmd := &InitDataCommand{DataDir: dir, out: &out}
	require.NoError(t, cmd.Run())

	for _, c := range entities.AllCollections {
		assert.FileExists(t, filepath.Join(dir, c+".json"))
	}
	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, users, string(raw), "existing collections are not touched")

	assert.Contains(t, out.String(), "books      created")
	assert.Contains(t, out.String(), "users      exists")
}

func writeLegacyData(t *testing.T, dir string) {
	t.Helper()
	books := `[{"id":"b1","title":"Dune","favorites":["u1"],"readBy":["u2"]}]`
	favs := `[{"userId":"u3","bookId":"gone"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(books), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "favorites.json"), []byte(favs), 0o644))
}

func TestReconcileCommand_Run(t *testing.T) {
	dir := t.TempDir()
	writeLegacyData(t, dir)

	var out bytes.Buffer
	cmd := &ReconcileCommand{DataDir: dir, out: &out}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Favorites:")
	assert.NotContains(t, out.String(), "Dry run")

	raw, err := os.ReadFile(filepath.Join(dir, "favorites.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"userId":"u1","bookId":"b1"}]`, string(raw))

	out.Reset()
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Relations are consistent.")
}

func TestReconcileCommand_DryRunJSON(t *testing.T) {
	dir := t.TempDir()
	writeLegacyData(t, dir)

	var out bytes.Buffer
	cmd := NewReconcileCommand()
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-dir", dir, "-dry-run", "-json"}))
	require.NoError(t, cmd.Run())

	var report relations.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Favorites.AddedToRelations)
	assert.Equal(t, 1, report.Favorites.DroppedDangling)
	assert.Equal(t, 1, report.Reads.AddedToRelations)

	raw, err := os.ReadFile(filepath.Join(dir, "favorites.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"userId":"u3","bookId":"gone"}]`, string(raw))

	assert.NoFileExists(t, filepath.Join(dir, "reads.json"))
	assert.NoFileExists(t, filepath.Join(dir, "users.json"))
}
