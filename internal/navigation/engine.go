// Package navigation turns a navigation token into the next screen. It owns
// no state: every step re-reads the schedule stores and favorites.
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/callback"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/favorites"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// NearestLimit is how many upcoming departures a schedule view lists.
const NearestLimit = 5

type ScheduleSource interface {
	Get(ctx context.Context, force bool) models.Snapshot
}

// Favorites is the subset of favorites.Service the engine drives.
type Favorites interface {
	List(ctx context.Context, userID string) (favorites.Collection, error)
	Contains(ctx context.Context, userID string, ref models.StopRef) (bool, error)
	Add(ctx context.Context, userID string, ref models.StopRef, day models.DayType) (favorites.AddStatus, favorites.Entry, error)
	Delete(ctx context.Context, userID string, class models.VehicleClass, key string) (favorites.DeleteStatus, error)
}

type Engine struct {
	schedules map[models.VehicleClass]ScheduleSource
	favorites Favorites
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
	texts     Texts
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(schedules map[models.VehicleClass]ScheduleSource, favs Favorites, location *time.Location, logger *slog.Logger, opts ...Option) *Engine {
	if location == nil {
		location = time.UTC
	}
	e := &Engine{
		schedules: schedules,
		favorites: favs,
		location:  location,
		now:       time.Now,
		logger:    logging.Component(logger, "navigation"),
		texts:     DefaultTexts(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now is the engine's wall clock in the service time zone.
func (e *Engine) Now() time.Time {
	return e.now().In(e.location)
}

// Today is the day-type of the current local date. It is computed per call,
// never cached, so a session spanning midnight follows the calendar.
func (e *Engine) Today() models.DayType {
	return models.DayTypeFor(e.Now())
}

// Handle decodes raw and renders the next state for userID. Failures the user
// can act on come back as notices, so Handle never returns an error.
func (e *Engine) Handle(ctx context.Context, userID, raw string) models.ActionResult {
	tok, err := callback.Decode(raw)
	if err != nil {
		e.logger.Debug("rejected navigation token", slog.String("token", raw), slog.String("error", err.Error()))
		return e.failure(err)
	}

	var view *models.View
	switch tok := tok.(type) {
	case callback.ListToken:
		view, err = e.VehicleList(ctx, tok.Class)
	case callback.DirectionsToken:
		view, err = e.directions(ctx, tok.Class, tok.Number)
	case callback.StopsToken:
		view, err = e.stops(ctx, tok.Class, tok.Number, tok.Route)
	case callback.ScheduleToken:
		view, err = e.schedule(ctx, userID, tok.StopRef, tok.Day, false)
	case callback.ToggleToken:
		view, err = e.schedule(ctx, userID, tok.StopRef, tok.Day, tok.FromFavorites)
	case callback.FavoriteShowToken:
		view, err = e.schedule(ctx, userID, tok.StopRef, e.Today(), true)
	case callback.FavoriteAddToken:
		return e.addFavorite(ctx, userID, tok.StopRef)
	case callback.FavoriteDeleteToken:
		return e.deleteFavorite(ctx, userID, tok.StopRef)
	case callback.FavoritesToken:
		view, err = e.FavoritesList(ctx, userID)
	case callback.FavoriteAckToken:
		return models.ActionResult{Notice: e.notice(models.NoticeAlreadyFavorite)}
	}
	if err != nil {
		return e.failure(err)
	}
	return models.ActionResult{View: view}
}

// addFavorite saves ref and re-renders its schedule for today, the day-type the
// favorite was resolved against, so the add button turns into the saved marker.
func (e *Engine) addFavorite(ctx context.Context, userID string, ref models.StopRef) models.ActionResult {
	status, _, err := e.favorites.Add(ctx, userID, ref, e.Today())
	if err != nil {
		return e.failure(err)
	}
	notice := e.notice(models.NoticeFavoriteAdded)
	if status == favorites.AlreadyPresent {
		notice = e.notice(models.NoticeAlreadyFavorite)
	}

	view, err := e.schedule(ctx, userID, ref, e.Today(), false)
	if err != nil {
		logging.LogWarning(e.logger, "saved favorite but could not re-render its schedule", err,
			slog.String("user", userID), slog.String("key", ref.FavoriteKey()))
		return models.ActionResult{Notice: notice}
	}
	return models.ActionResult{View: view, Notice: notice}
}

func (e *Engine) deleteFavorite(ctx context.Context, userID string, ref models.StopRef) models.ActionResult {
	status, err := e.favorites.Delete(ctx, userID, ref.Class, ref.FavoriteKey())
	if err != nil {
		return e.failure(err)
	}
	notice := e.notice(models.NoticeFavoriteRemoved)
	if status == favorites.AlreadyAbsent {
		notice = e.notice(models.NoticeAlreadyRemoved)
	}

	view, err := e.FavoritesList(ctx, userID)
	if err != nil {
		result := e.failure(err)
		result.Notice = notice
		return result
	}
	return models.ActionResult{View: view, Notice: notice}
}

// failure maps an error to the notice the user sees.
func (e *Engine) failure(err error) models.ActionResult {
	var persistErr *favorites.PersistenceError
	switch {
	case errors.Is(err, callback.ErrInvalidToken):
		return e.alert(models.NoticeInvalidToken)
	case errors.Is(err, ErrNotFound), errors.Is(err, favorites.ErrFavoriteNotFound):
		return e.alert(models.NoticeNotFound)
	case errors.Is(err, ErrUnavailable):
		return e.alert(models.NoticeUnavailable)
	case errors.As(err, &persistErr):
		logging.LogError(e.logger, "favorites action failed", err, slog.String("user", persistErr.UserID))
		return e.alert(models.NoticeActionFailed)
	}
	logging.LogError(e.logger, "navigation step failed", err)
	return e.alert(models.NoticeActionFailed)
}

// snapshot fetches class's schedule through the store's TTL path.
func (e *Engine) snapshot(ctx context.Context, class models.VehicleClass) (models.Snapshot, error) {
	source, ok := e.schedules[class]
	if !ok {
		return models.Snapshot{}, notFound("vehicle class", string(class))
	}
	snap := source.Get(ctx, false)
	if snap.IsEmpty() {
		return snap, ErrUnavailable
	}
	return snap, nil
}

func (e *Engine) vehicle(ctx context.Context, class models.VehicleClass, number string) (*models.Vehicle, error) {
	snap, err := e.snapshot(ctx, class)
	if err != nil {
		return nil, err
	}
	v, ok := snap.Vehicle(number)
	if !ok {
		return nil, notFound(string(class), number)
	}
	return v, nil
}
