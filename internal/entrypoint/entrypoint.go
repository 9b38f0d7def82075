package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/relations"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the assembled HTTP handler and the resources it owns.
type App struct {
	Handler   http.Handler
	Database  *database.Database
	Limiter   *auth.LoginLimiter
	Scheduler *scheduler.ReconcileScheduler
}

// Close releases background resources.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
}

// Build opens the data directory, initializes and reconciles the collections,
// and wires the repositories into the router.
func Build(cfg *config.Config, version string, log zerolog.Logger) (*App, error) {
	if cfg.Storage.ReconcileSchedule != "" {
		if err := scheduler.ValidateSchedule(cfg.Storage.ReconcileSchedule); err != nil {
			return nil, fmt.Errorf("invalid RECONCILE_SCHEDULE: %w", err)
		}
	}

	store, err := database.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open data directory: %w", err)
	}

	var (
		reg            *prometheus.Registry
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	db := database.New(database.Instrument(store, registerer(reg)))
	if err := db.Init(entities.AllCollections...); err != nil {
		return nil, fmt.Errorf("initialize collections: %w", err)
	}

	rel := relations.NewManager(db)
	report, err := rel.Reconcile(false)
	if err != nil {
		return nil, fmt.Errorf("reconcile relations: %w", err)
	}
	if report.Changed() {
		log.Warn().
			Interface("favorites", report.Favorites).
			Interface("reads", report.Reads).
			Msg("repaired inconsistent relations")
	}

	limiter := auth.NewLoginLimiter(auth.LoginLimitConfig{
		MaxAttempts:     cfg.Auth.LoginMaxAttempts,
		WindowDuration:  cfg.Auth.LoginWindow,
		LockoutDuration: cfg.Auth.LoginLockout,
	})

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          books.NewRepository(db, rel),
		Favourites:     rel,
		Reads:          rel,
		Users:          users.NewRepository(db, cfg.Auth.BcryptCost, log),
		LoginLimiter:   limiter,
		Health:         db,
		Collections:    entities.AllCollections,
		Logger:         log,
		Registerer:     registerer(reg),
		MetricsHandler: metricsHandler,
		Version:        version,
	})

	return &App{
		Handler:   corsHandler(cfg.CORS.AllowedOrigins)(router),
		Database:  db,
		Limiter:   limiter,
		Scheduler: scheduler.NewReconcileScheduler(rel, cfg.Storage.ReconcileSchedule, log),
	}, nil
}

// registerer avoids handing a typed nil registry to callers that check for nil.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

// corsHandler applies the configured origin policy. Credentials are only
// allowed for explicit origins.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}).Handler
}

func Serve(handler http.Handler, cfg *config.Config, log zerolog.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
}

func Run(cfg *config.Config, version string) {
	log := logger.New(logger.Options{
		ServiceName: config.ServiceName,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})
	log.Info().Str("version", version).Str("data_dir", cfg.Storage.DataDir).Msg("starting bookshelf")

	app, err := Build(cfg, version, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	if err := app.Scheduler.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("start reconcile scheduler")
	}

	Serve(app.Handler, cfg, log, func(context.Context) {
		app.Close()
	})
}
