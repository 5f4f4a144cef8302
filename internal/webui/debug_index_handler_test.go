package webui

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/app"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
)

func newTestRouter(t *testing.T) (*httprouter.Router, *app.Application) {
	t.Helper()
	cfg := appconf.Defaults()
	cfg.Env = appconf.Test
	cfg.Schedule.RefreshInterval = 0
	cfg.Favorites.Path = filepath.Join(t.TempDir(), "favorites.json")

	fixture := func(name string) schedule.Collector {
		return schedule.CollectorFunc(func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
			return models.LoadFixtureVehicles(t, name), nil
		})
	}
	application, err := app.New(context.Background(), cfg, logging.NewStructuredLogger(io.Discard, slog.LevelError),
		app.WithCollector(models.Bus, fixture("buses.json")),
		app.WithCollector(models.Trolleybus, fixture("trolleybuses.json")),
	)
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)

	router := httprouter.New()
	New(application).SetWebUIRoutes(router)
	return router, application
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDebugIndexDefaultsToHelp(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/debug/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Choose a data type</title>")
	assert.Contains(t, rec.Body.String(), `href="?dataType=trolleybus"`)
}

func TestDebugIndexDumpsStores(t *testing.T) {
	router, application := newTestRouter(t)

	rec := get(router, "/debug/?dataType=bus")
	assert.Contains(t, rec.Body.String(), "Schedule - Buses")
	assert.NotContains(t, rec.Body.String(), "28к", "the debug page must not load schedules")

	application.Start(context.Background())

	rec = get(router, "/debug/?dataType=bus")
	assert.Contains(t, rec.Body.String(), "28к")

	rec = get(router, "/debug/?dataType=status")
	assert.Contains(t, rec.Body.String(), "Generation: (uint64) 1")
}

func TestDebugIndexFavorites(t *testing.T) {
	router, application := newTestRouter(t)
	application.Start(context.Background())

	_, _, err := application.Favorites.Add(context.Background(), "u1", models.StopRef{Class: models.Bus, Number: "5", Route: 0, Stop: 2}, models.Weekday)
	require.NoError(t, err)

	rec := get(router, "/debug/?dataType=favorites&user=u1")
	assert.Contains(t, rec.Body.String(), "Кольцо")

	rec = get(router, "/debug/?dataType=favorites")
	assert.Contains(t, rec.Body.String(), "needs a valid user")
}
