package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/app"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
)

const testKey = "TEST"

// monday0730 is a weekday morning in Europe/Minsk.
var monday0730 = time.Date(2025, 6, 2, 7, 30, 0, 0, time.FixedZone("+03", 3*60*60))

type testServer struct {
	api        *RestAPI
	server     *httptest.Server
	busCalls   *atomic.Int32
	busFailing *atomic.Bool
}

func testLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelError)
}

// createTestApi wires a real application around the testdata schedules and
// serves the full middleware chain.
func createTestApi(t *testing.T, mutate ...func(*appconf.Config)) *testServer {
	t.Helper()

	cfg := appconf.Defaults()
	cfg.Env = appconf.Test
	cfg.ApiKeys = []string{testKey}
	cfg.Schedule.RefreshInterval = 0
	cfg.Favorites.Path = filepath.Join(t.TempDir(), "favorites.json")
	for _, fn := range mutate {
		fn(&cfg)
	}

	ts := &testServer{busCalls: &atomic.Int32{}, busFailing: &atomic.Bool{}}
	busCollector := schedule.CollectorFunc(func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
		ts.busCalls.Add(1)
		if ts.busFailing.Load() {
			return nil, errors.New("site is down")
		}
		return models.LoadFixtureVehicles(t, "buses.json"), nil
	})
	trolleybusCollector := schedule.CollectorFunc(func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
		return models.LoadFixtureVehicles(t, "trolleybuses.json"), nil
	})

	application, err := app.New(context.Background(), cfg, testLogger(),
		app.WithCollector(models.Bus, busCollector),
		app.WithCollector(models.Trolleybus, trolleybusCollector),
		app.WithClock(func() time.Time { return monday0730 }),
	)
	require.NoError(t, err)

	ts.api = NewRestAPI(application)
	ts.server = httptest.NewServer(ts.api.Handler())
	t.Cleanup(func() {
		ts.server.Close()
		ts.api.Shutdown()
		application.Shutdown()
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, endpoint, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		logging.SafeCloseWithLogging(resp.Body, testLogger(), "http_response_body")
	})
	return resp
}

type envelope[T any] struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
	Data        struct {
		Entry T `json:"entry"`
	} `json:"data"`
}

func decodeEntry[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeJSON(resp *http.Response, dst interface{}) error {
	return json.NewDecoder(resp.Body).Decode(dst)
}

func decodeFieldErrors(t *testing.T, resp *http.Response) map[string][]string {
	t.Helper()
	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.FieldErrors
}

func buttonTokens(view *models.View) []string {
	out := make([]string, 0, len(view.Buttons))
	for _, b := range view.Buttons {
		out = append(out, b.Token)
	}
	return out
}
