package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/favorites"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
)

func testConfig(t *testing.T) appconf.Config {
	t.Helper()
	cfg := appconf.Defaults()
	cfg.Env = appconf.Test
	cfg.Schedule.RefreshInterval = 0
	cfg.Favorites.Path = filepath.Join(t.TempDir(), "favorites.json")
	return cfg
}

func testLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelError)
}

func fixtureCollector(t *testing.T, fixture string, calls *atomic.Int32) schedule.Collector {
	return schedule.CollectorFunc(func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
		calls.Add(1)
		return models.LoadFixtureVehicles(t, fixture), nil
	})
}

func TestNewWiresStoresAndEngine(t *testing.T) {
	var busCalls, trolleyCalls atomic.Int32
	app, err := New(context.Background(), testConfig(t), testLogger(),
		WithCollector(models.Bus, fixtureCollector(t, "buses.json", &busCalls)),
		WithCollector(models.Trolleybus, fixtureCollector(t, "trolleybuses.json", &trolleyCalls)),
	)
	require.NoError(t, err)
	defer app.Shutdown()

	require.Len(t, app.Schedules, 2)
	assert.Equal(t, models.Bus, app.Schedules[models.Bus].Class())
	assert.Equal(t, models.Trolleybus, app.Schedules[models.Trolleybus].Class())
	assert.IsType(t, &favorites.JSONStore{}, app.FavoritesStore)
	assert.Equal(t, "Europe/Minsk", app.Location.String())

	// Nothing is collected before Start.
	assert.Zero(t, busCalls.Load())

	app.Start(context.Background())
	assert.Equal(t, int32(1), busCalls.Load())
	assert.Equal(t, int32(1), trolleyCalls.Load())

	view, err := app.Engine.VehicleList(context.Background(), models.Bus)
	require.NoError(t, err)
	assert.NotEmpty(t, view.Buttons)
}

func TestStartSurvivesCollectorFailure(t *testing.T) {
	failing := schedule.CollectorFunc(func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
		return nil, errors.New("site is down")
	})
	app, err := New(context.Background(), testConfig(t), testLogger(),
		WithCollector(models.Bus, failing),
		WithCollector(models.Trolleybus, failing),
	)
	require.NoError(t, err)
	defer app.Shutdown()

	app.Start(context.Background())

	st := app.Schedules[models.Bus].Status()
	assert.Zero(t, st.Vehicles)
	assert.Equal(t, "site is down", st.LastError)

	res := app.Engine.Handle(context.Background(), "u1", "bus_1")
	require.NotNil(t, res.Notice)
	assert.Equal(t, models.NoticeUnavailable, res.Notice.Kind)
}

func TestNewSQLiteFavorites(t *testing.T) {
	cfg := testConfig(t)
	cfg.Favorites.Backend = appconf.BackendSQLite
	cfg.Favorites.Path = ":memory:"

	app, err := New(context.Background(), cfg, testLogger(),
		WithClock(func() time.Time { return time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC) }))
	require.NoError(t, err)
	defer app.Shutdown()
	assert.IsType(t, &favorites.SQLiteStore{}, app.FavoritesStore)
}

func TestNewRejectsFavoritesFileInTestEnv(t *testing.T) {
	cfg := testConfig(t)
	cfg.Favorites.Backend = appconf.BackendSQLite
	cfg.Favorites.Path = filepath.Join(t.TempDir(), "favorites.db")

	_, err := New(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.Trolleybus.Source = "ftp"

	_, err := New(context.Background(), cfg, testLogger())
	assert.ErrorContains(t, err, "trolleybus collector")
}
