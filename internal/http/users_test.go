package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestUsersController_SignupLoginList(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Ann",
		"email":    "ann@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]string](t, w)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "Ann", created["name"])
	assert.Equal(t, "ann@example.com", created["email"])
	assert.Equal(t, "User created successfully", created["message"])
	assert.NotContains(t, created, "password")

	w = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ANN@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[map[string]string](t, w)
	assert.Equal(t, created["id"], user["id"])
	assert.NotContains(t, user, "password")

	w = app.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]map[string]string](t, w)
	require.Len(t, users, 1)
	assert.NotContains(t, users[0], "password")
}

func TestUsersController_SignupErrors(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.CreateUser(entities.SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode string
	}{
		{"duplicate email", map[string]string{"name": "Other", "email": "Ann@Example.com", "password": "x"}, "DUPLICATE_EMAIL"},
		{"missing name", map[string]string{"email": "bob@example.com", "password": "x"}, "VALIDATION"},
		{"invalid email", map[string]string{"name": "Bob", "email": "bob", "password": "x"}, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/auth/signup", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestUsersController_LoginFailures(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.CreateUser(entities.SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	wrongPassword := app.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "nope"})
	unknownEmail := app.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

// fakeLimiter locks out after a fixed number of failures.
type fakeLimiter struct {
	failures  map[string]int
	max       int
	successes int
}

func (f *fakeLimiter) Allow(ip, email string) (bool, time.Duration) {
	if f.failures[email] >= f.max {
		return false, 90*time.Second + 500*time.Millisecond
	}
	return true, 0
}

func (f *fakeLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	f.failures[email]++
	return f.failures[email] >= f.max, time.Minute
}

func (f *fakeLimiter) RecordSuccess(ip, email string) {
	delete(f.failures, email)
	f.successes++
}

func TestUsersController_LoginLockout(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.CreateUser(entities.SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	limiter := &fakeLimiter{failures: map[string]int{}, max: 2}
	router := gin.New()
	router.POST("/login", NewUsersController(app.users, limiter).Login)

	bad := map[string]string{"email": "ann@example.com", "password": "nope"}
	good := map[string]string{"email": "ann@example.com", "password": "secret"}

	assert.Equal(t, http.StatusUnauthorized, serve(t, router, http.MethodPost, "/login", bad).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, router, http.MethodPost, "/login", bad).Code)

	w := serve(t, router, http.MethodPost, "/login", good)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "91", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decode[ErrorResponse](t, w).Code)

	delete(limiter.failures, "ann@example.com")
	w = serve(t, router, http.MethodPost, "/login", good)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.successes)
}
