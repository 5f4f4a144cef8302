package appconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, 7*24*time.Hour, cfg.Schedule.CacheTTL)
	assert.Equal(t, []string{"50", "28к"}, cfg.Schedule.Bus.Skip)
	assert.Equal(t, BackendJSON, cfg.Favorites.Backend)
	assert.Equal(t, "Europe/Minsk", cfg.Location().String())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
port: 8080
env: test
api_keys: [alpha, beta]
log_level: debug
schedule:
  cache_ttl: 1h
  collect_timeout: 30s
  trolleybus:
    source: gtfs
    gtfs_url: ./testdata/trolleybus.zip
    concurrency: 1
favorites:
  backend: sqlite
  path: ":memory:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ApiKeys)
	assert.Equal(t, time.Hour, cfg.Schedule.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Schedule.CollectTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.RefreshInterval, "unset keys keep their defaults")
	assert.Equal(t, SourceGTFS, cfg.Schedule.Trolleybus.Source)
	assert.Equal(t, SourceScraper, cfg.Schedule.Bus.Source)
	assert.Equal(t, BackendSQLite, cfg.Favorites.Backend)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "favorites:\n  backend: redis\n"},
		{"unknown source", "schedule:\n  bus:\n    source: ftp\n"},
		{"gtfs without url", "schedule:\n  bus:\n    source: gtfs\n"},
		{"bad log level", "log_level: loud\n"},
		{"bad environment", "env: staging-eu\n"},
		{"bad time zone", "time_zone: Mars/Olympus\n"},
		{"zero ttl", "schedule:\n  cache_ttl: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	env := map[string]string{
		"FAVORITES_PATH":           "/data/favorites.json",
		"BUS_SCHEDULE_PATH":        "/data/buses.json",
		"TROLLEYBUS_SCHEDULE_PATH": "/data/trolleybuses.json",
		"API_KEYS":                 " one, two ,,",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/data/favorites.json", cfg.Favorites.Path)
	assert.Equal(t, "/data/buses.json", cfg.Schedule.Bus.SnapshotPath)
	assert.Equal(t, "/data/trolleybuses.json", cfg.Schedule.Trolleybus.SnapshotPath)
	assert.Equal(t, []string{"one", "two"}, cfg.ApiKeys)
	assert.Equal(t, "Europe/Minsk", cfg.TimeZone)
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("PRODUCTION"))
	assert.Equal(t, Development, EnvFlagToEnvironment("whatever"))
	assert.Equal(t, "production", Production.String())
}

func TestCollectorForClass(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, []string{"50", "28к"}, cfg.Schedule.Collector(models.Bus).Skip)
	assert.Equal(t, "https://mogilev.biz/spravka/transport/troll/", cfg.Schedule.Collector(models.Trolleybus).ListURL)
}
