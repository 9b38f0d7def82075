package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books      BookStore
	Favourites FavouritesStore
	Reads      ReadsStore
	Users      UserStore

	// Login lockout (optional)
	LoginLimiter LoginLimiter

	// Health checks run against these collections
	Health      HealthChecker
	Collections []string

	Logger zerolog.Logger

	// Metrics (optional). Registerer receives the HTTP metrics and
	// MetricsHandler is served on /metrics.
	Registerer     prometheus.Registerer
	MetricsHandler http.Handler

	// Application info
	Version string
}
