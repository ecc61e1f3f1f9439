package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Lelo88/inventory-api-golang/internal/config"
	"github.com/Lelo88/inventory-api-golang/internal/db"
	"github.com/Lelo88/inventory-api-golang/internal/docs"
	"github.com/Lelo88/inventory-api-golang/internal/health"
	"github.com/Lelo88/inventory-api-golang/internal/httpx"
	"github.com/Lelo88/inventory-api-golang/internal/items"
	"github.com/Lelo88/inventory-api-golang/internal/keystore"
	"github.com/Lelo88/inventory-api-golang/internal/logging"
	"github.com/Lelo88/inventory-api-golang/internal/metrics"
	"github.com/Lelo88/inventory-api-golang/internal/securestore"
	"github.com/Lelo88/inventory-api-golang/internal/settings"
)

// appPool es lo que la app usa del pool de PostgreSQL.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// appDeps agrupa lo que run necesita del mundo exterior, para poder testearlo.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newPool        func(ctx context.Context, url string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
	logf           func(format string, args ...any)
}

// bootLogger se usa antes de tener la config (y para el fatal final).
var bootLogger = logging.New("info", os.Stderr, false)

var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	listenAndServeFn = http.ListenAndServe
	logfFn           = func(format string, args ...any) {
		bootLogger.Info().Msgf(format, args...)
	}
	fatalf = func(args ...any) {
		bootLogger.Fatal().Msg(fmt.Sprint(args...))
	}
)

func main() {
	err := run(context.Background(), appDeps{
		loadConfig:     loadConfigFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
		logf:           logfFn,
	})
	if err != nil {
		fatalf(err)
	}
}

// run arma la app y bloquea sirviendo HTTP.
func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, os.Stdout, false)

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	router, err := buildRouter(pool, cfg, logger)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	deps.logf("listening on %s", addr)
	return deps.listenAndServe(addr, router)
}

// buildRouter abre los stores cifrados bajo cfg.DataDir y monta todas las rutas.
func buildRouter(pool appPool, cfg config.Config, logger zerolog.Logger) (http.Handler, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	masterKey, err := securestore.LoadMasterKey(cfg.MasterKeyHex, filepath.Join(cfg.DataDir, "master.key"))
	if err != nil {
		return nil, err
	}
	preferences, err := securestore.Open(filepath.Join(cfg.DataDir, "encrypted_settings.json"), masterKey)
	if err != nil {
		return nil, err
	}
	keyFile, err := securestore.Open(filepath.Join(cfg.DataDir, "keystore.json"), masterKey)
	if err != nil {
		return nil, err
	}

	settingsModel, err := settings.NewModel(preferences)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	appMetrics := metrics.New()

	repository := items.NewRepository(pool)
	liveRepository := items.NewLiveRepository(repository, logger)
	service := items.NewService(repository, liveRepository)
	exporter := items.NewExporter(keystore.New(keyFile), cfg.CacheDir)
	detailsModels := items.NewDetailsModels(liveRepository, exporter)

	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(pool)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	docs.RegisterRoutes(r)
	items.RegisterRoutes(r, items.NewHandler(service, liveRepository, detailsModels, appMetrics, logger))
	settings.RegisterRoutes(r, settings.NewHandler(settingsModel, appMetrics, logger))

	return r, nil
}
