package entrypoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Storage: config.Storage{DataDir: dir},
		Auth:    config.Auth{BcryptCost: 4},
		CORS:    config.CORS{AllowedOrigins: []string{"*"}},
		Metrics: config.Metrics{Enabled: true},
	}
}

func buildApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := Build(cfg, "test", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestBuild_InitializesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	app := buildApp(t, testConfig(dir))

	for _, c := range entities.AllCollections {
		raw, err := os.ReadFile(filepath.Join(dir, c+".json"))
		require.NoError(t, err, c)
		assert.JSONEq(t, "[]", string(raw))
	}

	w := get(t, app.Handler, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuild_ReconcilesLegacyData(t *testing.T) {
	dir := t.TempDir()
	books := `[{"id":"b1","title":"Dune","author":"Frank Herbert","year":1965,"genre":"Science Fiction","rating":5,"favorites":["u1"],"readBy":["u2"]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(books), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "favorites.json"), []byte(`[]`), 0o644))

	app := buildApp(t, testConfig(dir))

	w := get(t, app.Handler, "/api/search?favoritesOf=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var favs []entities.Relation
	raw, err := os.ReadFile(filepath.Join(dir, "favorites.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &favs))
	assert.Equal(t, []entities.Relation{{UserID: "u1", BookID: "b1"}}, favs)

	var reads []entities.Relation
	raw, err = os.ReadFile(filepath.Join(dir, "reads.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &reads))
	assert.Equal(t, []entities.Relation{{UserID: "u2", BookID: "b1"}}, reads)
}

func TestBuild_CorruptCollectionFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(`{not json`), 0o644))

	_, err := Build(testConfig(dir), "test", zerolog.Nop())

	assert.Error(t, err)
}

func TestBuild_InvalidReconcileSchedule(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Storage.ReconcileSchedule = "hourly"

	_, err := Build(cfg, "test", zerolog.Nop())

	assert.ErrorContains(t, err, "RECONCILE_SCHEDULE")
}

func TestBuild_SchedulerStoppedOnClose(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Storage.ReconcileSchedule = "0 * * * *"
	app, err := Build(cfg, "test", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, app.Scheduler.Start(context.Background()))
	assert.True(t, app.Scheduler.IsRunning())

	app.Close()
	assert.False(t, app.Scheduler.IsRunning())
}

func TestBuild_MetricsEndpoint(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		app := buildApp(t, testConfig(t.TempDir()))
		get(t, app.Handler, "/api/books", nil)

		w := get(t, app.Handler, "/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "bookshelf_store_operations_total")
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.Metrics.Enabled = false
		app := buildApp(t, cfg)

		assert.Equal(t, http.StatusNotFound, get(t, app.Handler, "/metrics", nil).Code)
	})
}

func TestBuild_CORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		app := buildApp(t, testConfig(t.TempDir()))

		w := get(t, app.Handler, "/api/books", map[string]string{"Origin": "http://localhost:3000"})
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("explicit origins", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.CORS.AllowedOrigins = []string{"https://books.example.com"}
		app := buildApp(t, cfg)

		w := get(t, app.Handler, "/api/books", map[string]string{"Origin": "https://books.example.com"})
		assert.Equal(t, "https://books.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

		w = get(t, app.Handler, "/api/books", map[string]string{"Origin": "https://evil.example.com"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		app := buildApp(t, testConfig(t.TempDir()))

		req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		app.Handler.ServeHTTP(w, req)

		assert.True(t, w.Code == http.StatusOK || w.Code == http.StatusNoContent)
		assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost))
	})
}
