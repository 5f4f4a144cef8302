package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, appconf.Defaults(), cfg)
}

func TestParseConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
rate_limit: 7
favorites:
  backend: json
  path: /from/file.json
schedule:
  cache_ttl: 24h
`), 0o644))

	env := envMap(map[string]string{
		"CONFIG_PATH":    path,
		"FAVORITES_PATH": "/from/env.json",
		"API_KEYS":       "a, b",
	})

	cfg, err := parseConfig([]string{"-port", "9090", "-env", "production"}, env)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port, "flags win over the file")
	assert.Equal(t, 7, cfg.RateLimit, "file wins over defaults")
	assert.Equal(t, 24*time.Hour, cfg.Schedule.CacheTTL)
	assert.Equal(t, "/from/env.json", cfg.Favorites.Path, "env wins over the file")
	assert.Equal(t, []string{"a", "b"}, cfg.ApiKeys)
	assert.Equal(t, appconf.Production, cfg.Env)
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	env := envMap(map[string]string{"FAVORITES_PATH": "/from/env.json"})

	cfg, err := parseConfig([]string{"-favorites-path", "/from/flag.db", "-favorites-backend", "sqlite", "-api-keys", "k1,k2"}, env)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.Favorites.Path)
	assert.Equal(t, appconf.BackendSQLite, cfg.Favorites.Backend)
	assert.Equal(t, []string{"k1", "k2"}, cfg.ApiKeys)
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	_, err := parseConfig([]string{"-log-level", "loud"}, envMap(nil))
	assert.Error(t, err)

	_, err = parseConfig([]string{"-favorites-backend", "redis"}, envMap(nil))
	assert.Error(t, err)

	_, err = parseConfig([]string{"-no-such-flag"}, envMap(nil))
	assert.Error(t, err)

	_, err = parseConfig(nil, envMap(map[string]string{"CONFIG_PATH": "/does/not/exist.yaml"}))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := appconf.Defaults()
	cfg.Env = appconf.Production
	newLogger(&buf, cfg).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.Env = appconf.Development
	cfg.LogLevel = "warn"
	logger := newLogger(&buf, cfg)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
