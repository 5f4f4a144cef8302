package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/collector/gtfsfeed"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/collector/scraper"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/favorites"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/navigation"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: one schedule store per vehicle class, the favorites
// service and the navigation engine built on top of them.
type Application struct {
	Config         appconf.Config
	Logger         *slog.Logger
	Location       *time.Location
	Schedules      map[models.VehicleClass]*schedule.Store
	FavoritesStore favorites.Store
	Favorites      *favorites.Service
	Engine         *navigation.Engine
}

type options struct {
	collectors map[models.VehicleClass]schedule.Collector
	clock      func() time.Time
}

type Option func(*options)

// WithCollector replaces the configured collector of one class.
func WithCollector(class models.VehicleClass, c schedule.Collector) Option {
	return func(o *options) {
		o.collectors[class] = c
	}
}

// WithClock pins the clock of the stores and the engine.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// New wires the application from cfg. It does not touch the network; call
// Start to warm the schedule stores up.
func New(ctx context.Context, cfg appconf.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	o := &options{collectors: make(map[models.VehicleClass]schedule.Collector)}
	for _, opt := range opts {
		opt(o)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Location:  cfg.Location(),
		Schedules: make(map[models.VehicleClass]*schedule.Store, len(models.VehicleClasses)),
	}

	engineSources := make(map[models.VehicleClass]navigation.ScheduleSource, len(models.VehicleClasses))
	favoriteSources := make(map[models.VehicleClass]favorites.ScheduleSource, len(models.VehicleClasses))

	for _, class := range models.VehicleClasses {
		cc := cfg.Schedule.Collector(class)
		collector, ok := o.collectors[class]
		if !ok {
			var err error
			collector, err = newCollector(cc, logger)
			if err != nil {
				return nil, fmt.Errorf("%s collector: %w", class, err)
			}
		}

		var storeOpts []schedule.Option
		if o.clock != nil {
			storeOpts = append(storeOpts, schedule.WithClock(o.clock))
		}
		store := schedule.NewStore(schedule.Config{
			Class:           class,
			TTL:             cfg.Schedule.CacheTTL,
			CollectTimeout:  cfg.Schedule.CollectTimeout,
			RefreshInterval: cfg.Schedule.RefreshInterval,
			SnapshotPath:    cc.SnapshotPath,
		}, collector, logger, storeOpts...)

		app.Schedules[class] = store
		engineSources[class] = store
		favoriteSources[class] = store
	}

	favStore, err := newFavoritesStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.FavoritesStore = favStore
	app.Favorites = favorites.NewService(favStore, favoriteSources, logger)

	var engineOpts []navigation.Option
	if o.clock != nil {
		engineOpts = append(engineOpts, navigation.WithClock(o.clock))
	}
	app.Engine = navigation.NewEngine(engineSources, app.Favorites, app.Location, logger, engineOpts...)

	return app, nil
}

func newCollector(cc appconf.CollectorConfig, logger *slog.Logger) (schedule.Collector, error) {
	switch cc.Source {
	case appconf.SourceScraper:
		return scraper.New(scraper.Config{
			ListURL:     cc.ListURL,
			Skip:        cc.Skip,
			Concurrency: cc.Concurrency,
		}, nil, logger), nil
	case appconf.SourceGTFS:
		return gtfsfeed.New(cc.GtfsURL, nil, logger), nil
	}
	return nil, fmt.Errorf("unknown collector source %q", cc.Source)
}

func newFavoritesStore(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (favorites.Store, error) {
	switch cfg.Favorites.Backend {
	case appconf.BackendSQLite:
		store, err := favorites.NewSQLiteStore(ctx, favorites.SQLiteConfig{
			Path: cfg.Favorites.Path,
			Env:  cfg.Env,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("error opening favorites database: %w", err)
		}
		return store, nil
	case appconf.BackendJSON, "":
		return favorites.NewJSONStore(cfg.Favorites.Path, logger), nil
	}
	return nil, fmt.Errorf("unknown favorites backend %q", cfg.Favorites.Backend)
}

// Start seeds every store from its snapshot file, warms it up with a read and
// launches the periodic reload. A store whose warm-up fails still starts; it
// serves an empty snapshot until a refresh succeeds.
func (app *Application) Start(ctx context.Context) {
	for _, class := range models.VehicleClasses {
		store := app.Schedules[class]
		if err := store.LoadSnapshotFile(); err != nil {
			logging.LogWarning(app.Logger, "ignoring unreadable snapshot file", err,
				slog.String("class", string(class)))
		}
		snap := store.Get(ctx, false)
		app.Logger.Info("schedule store ready",
			slog.String("class", string(class)),
			slog.Int("vehicles", snap.Len()),
			slog.Uint64("generation", snap.Generation))
		store.Start()
	}
}

// Shutdown stops the background reloads and closes the favorites store.
func (app *Application) Shutdown() {
	for _, store := range app.Schedules {
		store.Shutdown()
	}
	if app.FavoritesStore != nil {
		logging.SafeCloseWithLogging(app.FavoritesStore, app.Logger, "favorites_store_close")
	}
}
