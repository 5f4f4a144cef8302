package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

const (
	DefaultTTL            = 7 * 24 * time.Hour
	DefaultCollectTimeout = 2 * time.Minute
)

type Config struct {
	Class models.VehicleClass
	// TTL is how long a snapshot is served before Get(false) refreshes it.
	TTL time.Duration
	// CollectTimeout bounds one collector call. Hitting it fails the refresh.
	CollectTimeout time.Duration
	// RefreshInterval enables the background reload when positive.
	RefreshInterval time.Duration
	// SnapshotPath, when set, seeds the store at startup and receives every
	// successful refresh.
	SnapshotPath string
}

// Store caches the schedule of one vehicle class. Reads are lock-free; a
// refresh builds a new snapshot and swaps it in whole.
type Store struct {
	config    Config
	collector Collector
	logger    *slog.Logger
	now       func() time.Time

	current    atomic.Pointer[models.Snapshot]
	refreshMu  sync.Mutex
	generation uint64 // guarded by refreshMu

	statusMu    sync.Mutex
	lastAttempt time.Time
	lastError   error

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(config Config, collector Collector, logger *slog.Logger, opts ...Option) *Store {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.CollectTimeout <= 0 {
		config.CollectTimeout = DefaultCollectTimeout
	}

	s := &Store{
		config:       config,
		collector:    collector,
		logger:       logging.Component(logger, "schedule_store").With(slog.String("class", string(config.Class))),
		now:          time.Now,
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Class() models.VehicleClass {
	return s.config.Class
}

// Get returns the current snapshot. With force, or when the snapshot is missing
// or older than the TTL, it refreshes synchronously first. A failed refresh
// falls back to the previous snapshot, or to an empty one when there is none.
// Get never fails.
func (s *Store) Get(ctx context.Context, force bool) models.Snapshot {
	if !force {
		if snap := s.current.Load(); snap != nil && !s.expired(snap) {
			return *snap
		}
	}
	return s.refreshAndGet(ctx, force)
}

// Current returns the snapshot being served without ever refreshing.
func (s *Store) Current() models.Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return models.EmptySnapshot(s.config.Class)
}

// IsStale reports whether the next Get(false) would trigger a refresh.
func (s *Store) IsStale() bool {
	snap := s.current.Load()
	return snap == nil || s.expired(snap)
}

// Refresh collects unconditionally and reports the outcome. On failure the
// current snapshot is left untouched.
func (s *Store) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Store) refreshAndGet(ctx context.Context, force bool) models.Snapshot {
	prior := s.current.Load()
	if !force && prior != nil {
		// A refresh is already running; keep serving what we have.
		if !s.refreshMu.TryLock() {
			return *prior
		}
	} else {
		s.refreshMu.Lock()
	}
	defer s.refreshMu.Unlock()

	if !force {
		if snap := s.current.Load(); snap != nil && !s.expired(snap) {
			return *snap
		}
	}

	if err := s.refreshLocked(ctx); err != nil {
		if snap := s.current.Load(); snap != nil {
			logging.LogWarning(s.logger, "schedule refresh failed, serving previous snapshot", err,
				slog.Uint64("generation", snap.Generation),
				slog.Time("fetched_at", snap.FetchedAt))
			return *snap
		}
		logging.LogError(s.logger, "schedule refresh failed and no snapshot is available", err)
		return models.EmptySnapshot(s.config.Class)
	}
	return *s.current.Load()
}

func (s *Store) refreshLocked(ctx context.Context) error {
	start := s.now()
	vehicles, err := s.collect(ctx)

	s.statusMu.Lock()
	s.lastAttempt = start
	s.lastError = err
	s.statusMu.Unlock()

	if err != nil {
		return &CollectorError{Class: s.config.Class, Err: err}
	}

	for number, v := range vehicles {
		v.Normalize(number)
	}
	s.generation++
	snap := &models.Snapshot{
		Class:      s.config.Class,
		Vehicles:   vehicles,
		FetchedAt:  s.now(),
		Generation: s.generation,
	}
	s.current.Store(snap)

	logging.LogOperation(s.logger, "schedule_refreshed",
		slog.Int("vehicles", len(vehicles)),
		slog.Uint64("generation", snap.Generation),
		slog.Duration("duration", s.now().Sub(start)))

	if s.config.SnapshotPath != "" {
		if err := writeSnapshotFile(s.config.SnapshotPath, vehicles); err != nil {
			logging.LogError(s.logger, "failed to write snapshot file", err,
				slog.String("path", s.config.SnapshotPath))
		}
	}
	return nil
}

type collectResult struct {
	vehicles map[string]*models.Vehicle
	err      error
}

// collect runs the collector under the configured timeout. The collector runs
// in its own goroutine so one that ignores ctx still cannot hold the refresh.
func (s *Store) collect(ctx context.Context) (map[string]*models.Vehicle, error) {
	if s.collector == nil {
		return nil, fmt.Errorf("no collector configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.CollectTimeout)
	defer cancel()

	results := make(chan collectResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- collectResult{err: fmt.Errorf("collector panicked: %v", r)}
			}
		}()
		vehicles, err := s.collector.Collect(ctx, s.config.Class)
		results <- collectResult{vehicles: vehicles, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		if len(res.vehicles) == 0 {
			return nil, ErrNoVehicles
		}
		return res.vehicles, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("collector timed out: %w", ctx.Err())
	}
}

func (s *Store) expired(snap *models.Snapshot) bool {
	return s.now().Sub(snap.FetchedAt) >= s.config.TTL
}

// Status is a point-in-time description of the store for health reporting.
type Status struct {
	Class       models.VehicleClass `json:"class"`
	Vehicles    int                 `json:"vehicles"`
	Generation  uint64              `json:"generation"`
	FetchedAt   *time.Time          `json:"fetchedAt,omitempty"`
	Stale       bool                `json:"stale"`
	LastAttempt *time.Time          `json:"lastAttempt,omitempty"`
	LastError   string              `json:"lastError,omitempty"`
}

func (s *Store) Status() Status {
	st := Status{Class: s.config.Class, Stale: s.IsStale()}
	if snap := s.current.Load(); snap != nil {
		fetchedAt := snap.FetchedAt
		st.Vehicles = snap.Len()
		st.Generation = snap.Generation
		st.FetchedAt = &fetchedAt
	}

	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if !s.lastAttempt.IsZero() {
		lastAttempt := s.lastAttempt
		st.LastAttempt = &lastAttempt
	}
	if s.lastError != nil {
		st.LastError = s.lastError.Error()
	}
	return st
}
