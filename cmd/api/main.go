package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/app"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/restapi"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/webui"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(os.Stdout, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

// parseConfig layers the configuration: defaults, the optional -config YAML
// file, environment variables, then explicitly set flags.
func parseConfig(args []string, getenv func(string) string) (appconf.Config, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	configPath := fs.String("config", getenv("CONFIG_PATH"), "Path to a YAML config file")
	port := fs.Int("port", 0, "API server port")
	env := fs.String("env", "", "Environment (development|test|production)")
	apiKeys := fs.String("api-keys", "", "Comma Separated API Keys (test, etc)")
	rateLimit := fs.Int("rate-limit", 0, "Requests per second allowed per user (0 disables limiting)")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	favoritesBackend := fs.String("favorites-backend", "", "Favorites storage (json|sqlite)")
	favoritesPath := fs.String("favorites-path", "", "Favorites JSON file or SQLite database")

	if err := fs.Parse(args); err != nil {
		return appconf.Config{}, err
	}

	cfg, err := appconf.Load(*configPath)
	if err != nil {
		return appconf.Config{}, err
	}
	cfg.ApplyEnv(getenv)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "env":
			cfg.Env = appconf.EnvFlagToEnvironment(*env)
		case "api-keys":
			cfg.ApiKeys = appconf.SplitList(*apiKeys)
		case "rate-limit":
			cfg.RateLimit = *rateLimit
		case "log-level":
			cfg.LogLevel = *logLevel
		case "favorites-backend":
			cfg.Favorites.Backend = *favoritesBackend
		case "favorites-path":
			cfg.Favorites.Path = *favoritesPath
		}
	})

	if err := cfg.Validate(); err != nil {
		return appconf.Config{}, err
	}
	return cfg, nil
}

// newLogger writes JSON in production and readable text elsewhere.
func newLogger(w io.Writer, cfg appconf.Config) *slog.Logger {
	if cfg.Env == appconf.Production {
		return logging.NewStructuredLogger(w, cfg.SlogLevel())
	}
	return logging.NewTextLogger(w, cfg.SlogLevel())
}

func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	application.Start(ctx)

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	var extraRoutes []func(*httprouter.Router)
	if cfg.Env != appconf.Production {
		extraRoutes = append(extraRoutes, webui.New(application).SetWebUIRoutes)
	}

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     api.Handler(extraRoutes...),
		IdleTimeout: time.Minute,
		ReadTimeout: 5 * time.Second,
		// A request can trigger a schedule collection.
		WriteTimeout: cfg.Schedule.CollectTimeout + 10*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
