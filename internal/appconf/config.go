package appconf

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Minsk must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// Collector sources understood by the schedule stores.
const (
	SourceScraper = "scraper"
	SourceGTFS    = "gtfs"
)

// Favorites persistence backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds every setting the bot backend reads at startup. Values come from
// Defaults, then an optional YAML file, then environment variables, then flags.
type Config struct {
	Port      int             `yaml:"port" validate:"gte=0,lte=65535"`
	Env       Environment     `yaml:"env"`
	ApiKeys   []string        `yaml:"api_keys" validate:"dive,required"`
	RateLimit int             `yaml:"rate_limit" validate:"gte=0"`
	LogLevel  string          `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	TimeZone  string          `yaml:"time_zone" validate:"required"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Favorites FavoritesConfig `yaml:"favorites"`
}

type ScheduleConfig struct {
	// CacheTTL is how long a collected snapshot is served before a read triggers a refresh.
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"gt=0"`
	// RefreshInterval drives the background reload. Zero disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0"`
	// CollectTimeout bounds a single collector call.
	CollectTimeout time.Duration   `yaml:"collect_timeout" validate:"gt=0"`
	Bus            CollectorConfig `yaml:"bus"`
	Trolleybus     CollectorConfig `yaml:"trolleybus"`
}

type CollectorConfig struct {
	Source       string   `yaml:"source" validate:"oneof=scraper gtfs"`
	ListURL      string   `yaml:"list_url" validate:"omitempty,url"`
	GtfsURL      string   `yaml:"gtfs_url"`
	Skip         []string `yaml:"skip"`
	Concurrency  int      `yaml:"concurrency" validate:"gte=1,lte=32"`
	SnapshotPath string   `yaml:"snapshot_path"`
}

type FavoritesConfig struct {
	Backend string `yaml:"backend" validate:"oneof=json sqlite"`
	Path    string `yaml:"path" validate:"required"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Port:      4000,
		Env:       Development,
		ApiKeys:   []string{"test"},
		RateLimit: 100,
		LogLevel:  "info",
		TimeZone:  "Europe/Minsk",
		Schedule: ScheduleConfig{
			CacheTTL:        7 * 24 * time.Hour,
			RefreshInterval: 24 * time.Hour,
			CollectTimeout:  2 * time.Minute,
			Bus: CollectorConfig{
				Source:      SourceScraper,
				ListURL:     "https://mogilev.biz/spravka/transport/busgor/",
				Skip:        []string{"50", "28к"},
				Concurrency: 4,
			},
			Trolleybus: CollectorConfig{
				Source:      SourceScraper,
				ListURL:     "https://mogilev.biz/spravka/transport/troll/",
				Concurrency: 4,
			},
		},
		Favorites: FavoritesConfig{
			Backend: BackendJSON,
			Path:    "favorites.json",
		},
	}
}

// Load reads a YAML config file on top of Defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays the environment variables the bot has always honoured.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("FAVORITES_PATH"); v != "" {
		c.Favorites.Path = v
	}
	if v := getenv("BUS_SCHEDULE_PATH"); v != "" {
		c.Schedule.Bus.SnapshotPath = v
	}
	if v := getenv("TROLLEYBUS_SCHEDULE_PATH"); v != "" {
		c.Schedule.Trolleybus.SnapshotPath = v
	}
	if v := getenv("TZ_LOCATION"); v != "" {
		c.TimeZone = v
	}
	if v := getenv("API_KEYS"); v != "" {
		c.ApiKeys = SplitList(v)
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, cc := range map[string]CollectorConfig{"bus": c.Schedule.Bus, "trolleybus": c.Schedule.Trolleybus} {
		if cc.Source == SourceScraper && cc.ListURL == "" {
			return fmt.Errorf("invalid configuration: %s collector needs list_url", name)
		}
		if cc.Source == SourceGTFS && cc.GtfsURL == "" {
			return fmt.Errorf("invalid configuration: %s collector needs gtfs_url", name)
		}
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid configuration: unknown time zone %q: %w", c.TimeZone, err)
	}
	return nil
}

// Location resolves TimeZone. Validate has already checked it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SplitList splits a comma separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Collector returns the settings for one vehicle class.
func (s ScheduleConfig) Collector(class models.VehicleClass) CollectorConfig {
	if class == models.Trolleybus {
		return s.Trolleybus
	}
	return s.Bus
}
