package favorites

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

type AddStatus int

const (
	Added AddStatus = iota
	AlreadyPresent
)

type DeleteStatus int

const (
	Deleted DeleteStatus = iota
	AlreadyAbsent
)

// ScheduleSource is the part of a schedule store the service validates against.
type ScheduleSource interface {
	Get(ctx context.Context, force bool) models.Snapshot
}

// Service applies favorite changes. Every load-modify-save runs under one
// mutex, so two updates for the same user never overwrite each other.
type Service struct {
	store     Store
	schedules map[models.VehicleClass]ScheduleSource
	logger    *slog.Logger
	mu        sync.Mutex
}

func NewService(store Store, schedules map[models.VehicleClass]ScheduleSource, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		schedules: schedules,
		logger:    logging.Component(logger, "favorites"),
	}
}

// List returns a copy of the user's favorites.
func (s *Service) List(ctx context.Context, userID string) (Collection, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}
	return c, nil
}

func (s *Service) Contains(ctx context.Context, userID string, ref models.StopRef) (bool, error) {
	c, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := c.Get(ref.Class, ref.FavoriteKey())
	return ok, nil
}

// Add resolves ref against day's schedule and stores the names it points at.
// A ref that does not resolve returns ErrFavoriteNotFound and writes nothing.
func (s *Service) Add(ctx context.Context, userID string, ref models.StopRef, day models.DayType) (AddStatus, Entry, error) {
	entry, ok := s.resolve(ctx, ref, day)
	if !ok {
		return 0, Entry{}, ErrFavoriteNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return 0, Entry{}, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}
	key := ref.FavoriteKey()
	if existing, ok := c.Get(ref.Class, key); ok {
		return AlreadyPresent, existing, nil
	}

	c.Put(ref.Class, key, entry)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return 0, Entry{}, &PersistenceError{Op: "save", UserID: userID, Err: err}
	}

	logging.LogOperation(s.logger, "favorite_added",
		slog.String("user", userID),
		slog.String("class", string(ref.Class)),
		slog.String("key", key))
	return Added, entry, nil
}

// Delete removes the key. Deleting an absent key is not an error and does not
// touch storage.
func (s *Service) Delete(ctx context.Context, userID string, class models.VehicleClass, key string) (DeleteStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return 0, &PersistenceError{Op: "load", UserID: userID, Err: err}
	}
	if !c.Delete(class, key) {
		return AlreadyAbsent, nil
	}
	if err := s.store.Save(ctx, userID, c); err != nil {
		return 0, &PersistenceError{Op: "save", UserID: userID, Err: err}
	}

	logging.LogOperation(s.logger, "favorite_removed",
		slog.String("user", userID),
		slog.String("class", string(class)),
		slog.String("key", key))
	return Deleted, nil
}

func (s *Service) resolve(ctx context.Context, ref models.StopRef, day models.DayType) (Entry, bool) {
	source, ok := s.schedules[ref.Class]
	if !ok {
		return Entry{}, false
	}
	vehicle, ok := source.Get(ctx, false).Vehicle(ref.Number)
	if !ok {
		return Entry{}, false
	}
	route, stop, ok := vehicle.Stop(day, ref.Route, ref.Stop)
	if !ok {
		return Entry{}, false
	}
	return Entry{Number: vehicle.Number, Route: route.Name, Stop: stop.Name}, true
}
