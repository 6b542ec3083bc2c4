package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrjola/fitcoach/internal/coaching"
	"github.com/myrjola/fitcoach/internal/envstruct"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/flightrecorder"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

type application struct {
	logger     *slog.Logger
	service    *coaching.Service
	templateFS fs.FS
	// flightRecorder captures traces of timed out requests. It is nil when tracing is disabled.
	flightRecorder *flightrecorder.Recorder
	// cors adds CORS headers for the configured origins. It is a no-op when no origins are configured.
	cors func(http.Handler) http.Handler
	// crossOrigin rejects cross-origin browser writes from origins that are not explicitly allowed.
	crossOrigin *http.CrossOriginProtection
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITCOACH_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITCOACH_SQLITE_URL" envDefault:"./fitcoach.sqlite3"`
	// AllowedOrigins is a comma-separated list of origins allowed to call the API from browsers.
	AllowedOrigins string `env:"FITCOACH_ALLOWED_ORIGINS" envDefault:""`
	// CalorieTolerance is the accepted per-meal calorie deviation as a share of the target.
	CalorieTolerance float64 `env:"FITCOACH_CALORIE_TOLERANCE" envDefault:"0.15"`
	// DefaultPlanWeeks is the plan length when the goal does not imply one.
	DefaultPlanWeeks int `env:"FITCOACH_DEFAULT_PLAN_WEEKS" envDefault:"12"`
	// TracesDir enables the flight recorder. Traces of timed out requests are written there.
	TracesDir string `env:"FITCOACH_TRACES_DIR" envDefault:""`
}

const (
	optimizeInterval = time.Hour
	pruneInterval    = 24 * time.Hour
)

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	engine := plan.NewEngine(plan.Config{
		TolerancePercent: cfg.CalorieTolerance,
		DefaultPlanWeeks: cfg.DefaultPlanWeeks,
	})
	app := application{
		logger:         logger,
		service:        coaching.NewService(db, engine, logger),
		templateFS:     templates,
		flightRecorder: nil,
		cors:           nil,
		crossOrigin:    http.NewCrossOriginProtection(),
	}
	if err = app.configureCORS(splitOrigins(cfg.AllowedOrigins)); err != nil {
		return errors.Wrap(err, "configure cors", slog.String("origins", cfg.AllowedOrigins))
	}

	if cfg.TracesDir != "" {
		if app.flightRecorder, err = flightrecorder.New(logger, flightrecorder.Config{
			MinAge:          0,
			MaxBytes:        0,
			Cooldown:        0,
			TracesDirectory: cfg.TracesDir,
		}); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = app.flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(ctx)
	}

	// Background jobs must have stopped before the database closes.
	var wg sync.WaitGroup
	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer func() {
		stopJobs()
		wg.Wait()
	}()
	wg.Go(func() { db.RunOptimizer(jobsCtx, optimizeInterval) })
	wg.Go(func() { app.pruneInactivePlans(jobsCtx, pruneInterval) })

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for origin := range strings.SplitSeq(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (app *application) pruneInactivePlans(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.service.PruneInactivePlans(ctx); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelError, "prune inactive plans", errors.SlogError(err))
			}
		}
	}
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	// A missing .env file is fine, the environment may be configured elsewhere.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
