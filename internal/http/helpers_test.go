package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/relations"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is a router backed by real repositories on an in-memory store.
type testApp struct {
	router    *gin.Engine
	db        *database.Database
	books     *books.Repository
	relations *relations.Manager
	users     *users.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := database.New(database.NewMemoryStore(entities.AllCollections...))
	rel := relations.NewManager(db)
	bookRepo := books.NewRepository(db, rel)
	userRepo := users.NewRepository(db, bcrypt.MinCost, zerolog.Nop())

	router := NewRouter(RouterConfig{
		Books:       bookRepo,
		Favourites:  rel,
		Reads:       rel,
		Users:       userRepo,
		Health:      db,
		Collections: entities.AllCollections,
		Logger:      zerolog.Nop(),
		Version:     "test",
	})

	return &testApp{router: router, db: db, books: bookRepo, relations: rel, users: userRepo}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, a.router, method, path, body)
}

func serve(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testApp) createBook(t *testing.T, title, author string, year int, genre string, rating int) entities.Book {
	t.Helper()
	book, err := a.books.CreateBook(entities.BookInput{
		Title: title, Author: author, Year: year, Genre: genre, Rating: rating,
	})
	require.NoError(t, err)
	return *book
}

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorResponse
	}{
		{
			name:       "validation with details",
			err:        apperrors.ValidationWithDetails("invalid input", map[string]string{"title": "is required"}),
			wantStatus: http.StatusBadRequest,
			wantBody: ErrorResponse{
				Error:   "invalid input",
				Code:    "VALIDATION",
				Details: map[string]any{"title": "is required"},
			},
		},
		{
			name:       "not found",
			err:        apperrors.NotFound("book"),
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorResponse{Error: "book not found", Code: "NOT_FOUND"},
		},
		{
			name:       "storage failure is hidden",
			err:        apperrors.StorageFailure("save books", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorResponse{Error: "internal server error"},
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorResponse{Error: "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondAppError(c, tt.err, "test")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, decode[ErrorResponse](t, w))
		})
	}
}

func TestBindJSON_RejectsMalformedBody(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/books", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode[ErrorResponse](t, w).Error)
}
