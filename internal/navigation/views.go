package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/callback"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// VehicleList renders every vehicle of class, numeric numbers first.
func (e *Engine) VehicleList(ctx context.Context, class models.VehicleClass) (*models.View, error) {
	snap, err := e.snapshot(ctx, class)
	if err != nil {
		return nil, err
	}

	view := &models.View{Kind: models.ViewVehicleList, Class: class, Day: e.Today()}
	for _, v := range snap.SortedVehicles() {
		tok := callback.DirectionsToken{Class: class, Number: v.Number}
		if !e.encodable(tok) {
			continue
		}
		view.Buttons = append(view.Buttons, models.Button{
			Action: models.ActionSelect,
			Label:  e.vehicleLabel(v.Number),
			Class:  class,
			Token:  callback.Encode(tok),
		})
	}
	return view, nil
}

func (e *Engine) directions(ctx context.Context, class models.VehicleClass, number string) (*models.View, error) {
	v, err := e.vehicle(ctx, class, number)
	if err != nil {
		return nil, err
	}

	today := e.Today()
	view := &models.View{
		Kind:      models.ViewDirections,
		Class:     class,
		Day:       today,
		Number:    v.Number,
		RouteName: v.RouteName,
	}

	routes := v.Routes(today)
	if len(routes) == 0 {
		view.NoRoutes = true
		view.OppositeHasRoutes = len(v.Routes(today.Opposite())) > 0
	}
	for i, route := range routes {
		view.Buttons = append(view.Buttons, models.Button{
			Action: models.ActionSelect,
			Label:  route.Name,
			Class:  class,
			Day:    today,
			Token:  callback.Encode(callback.StopsToken{Class: class, Number: v.Number, Route: i}),
		})
	}
	view.Buttons = append(view.Buttons, e.back(callback.ListToken{Class: class}))
	return view, nil
}

func (e *Engine) stops(ctx context.Context, class models.VehicleClass, number string, routeIndex int) (*models.View, error) {
	v, err := e.vehicle(ctx, class, number)
	if err != nil {
		return nil, err
	}

	today := e.Today()
	route, ok := v.Route(today, routeIndex)
	if !ok {
		return nil, notFound("direction", fmt.Sprintf("%s/%d", number, routeIndex))
	}

	view := &models.View{
		Kind:      models.ViewStops,
		Class:     class,
		Day:       today,
		Number:    v.Number,
		RouteName: v.RouteName,
		Direction: route.Name,
	}
	for i, stop := range route.Stops {
		ref := models.StopRef{Class: class, Number: v.Number, Route: routeIndex, Stop: i}
		view.Buttons = append(view.Buttons, models.Button{
			Action: models.ActionSelect,
			Label:  stop.Name,
			Class:  class,
			Day:    today,
			Token:  callback.Encode(callback.ScheduleToken{StopRef: ref, Day: today}),
		})
	}
	view.Buttons = append(view.Buttons, e.back(callback.DirectionsToken{Class: class, Number: v.Number}))
	return view, nil
}

// schedule renders the departures at ref for day. day comes from the token and
// is not recomputed, so a view issued before midnight keeps its day-type.
func (e *Engine) schedule(ctx context.Context, userID string, ref models.StopRef, day models.DayType, fromFavorites bool) (*models.View, error) {
	v, err := e.vehicle(ctx, ref.Class, ref.Number)
	if err != nil {
		return nil, err
	}
	route, stop, ok := v.Stop(day, ref.Route, ref.Stop)
	if !ok {
		return nil, notFound("stop", ref.FavoriteKey())
	}

	now := e.Now()
	today := models.DayTypeFor(now)
	details := &models.ScheduleDetails{
		Today:         today,
		FromFavorites: fromFavorites,
		Hours:         models.GroupByHour(stop.Times),
		Nearest:       []string{},
	}
	details.NoSchedule = len(details.Hours) == 0
	if day == today {
		details.NearestShown = true
		details.Nearest = models.NearestDepartures(stop.Times, models.MinutesOfDay(now), NearestLimit)
	}

	view := &models.View{
		Kind:      models.ViewSchedule,
		Class:     ref.Class,
		Day:       day,
		Number:    v.Number,
		RouteName: v.RouteName,
		Direction: route.Name,
		Stop:      stop.Name,
		Schedule:  details,
	}

	if toggle, ok := e.toggleButton(v, ref, day, stop, fromFavorites); ok {
		view.Buttons = append(view.Buttons, toggle)
	}
	view.Buttons = append(view.Buttons, e.favoriteButton(ctx, userID, ref, fromFavorites))
	if fromFavorites {
		view.Buttons = append(view.Buttons, e.back(callback.FavoritesToken{}))
	} else {
		view.Buttons = append(view.Buttons, e.back(callback.StopsToken{Class: ref.Class, Number: ref.Number, Route: ref.Route}))
	}
	return view, nil
}

// toggleButton offers the opposite day-type when the same indices hold
// departures there. Indices are only trusted when the stop names agree.
func (e *Engine) toggleButton(v *models.Vehicle, ref models.StopRef, day models.DayType, stop models.Stop, fromFavorites bool) (models.Button, bool) {
	opposite := day.Opposite()
	_, oppositeStop, ok := v.Stop(opposite, ref.Route, ref.Stop)
	if !ok || len(models.GroupByHour(oppositeStop.Times)) == 0 {
		return models.Button{}, false
	}
	if !strings.EqualFold(oppositeStop.Name, stop.Name) {
		e.logger.Warn("stop differs between day types, not offering toggle",
			slog.String("class", string(ref.Class)),
			slog.String("key", ref.FavoriteKey()),
			slog.String("day", string(day)),
			slog.String("stop", stop.Name),
			slog.String("opposite_stop", oppositeStop.Name))
		return models.Button{}, false
	}

	return models.Button{
		Action: models.ActionToggleDay,
		Label:  e.texts.ShowDay[opposite],
		Class:  ref.Class,
		Day:    opposite,
		Token:  callback.Encode(callback.ToggleToken{StopRef: ref, Day: opposite, FromFavorites: fromFavorites}),
	}, true
}

func (e *Engine) favoriteButton(ctx context.Context, userID string, ref models.StopRef, fromFavorites bool) models.Button {
	if fromFavorites {
		return models.Button{
			Action: models.ActionFavoriteDelete,
			Label:  e.texts.FavoriteDelete,
			Class:  ref.Class,
			Token:  callback.Encode(callback.FavoriteDeleteToken{StopRef: ref}),
		}
	}

	saved, err := e.favorites.Contains(ctx, userID, ref)
	if err != nil {
		logging.LogWarning(e.logger, "could not check favorites, offering add", err, slog.String("user", userID))
	}
	if saved {
		return models.Button{
			Action: models.ActionFavoriteExists,
			Label:  e.texts.FavoriteExists,
			Class:  ref.Class,
			Token:  callback.Encode(callback.FavoriteAckToken{}),
		}
	}
	return models.Button{
		Action: models.ActionFavoriteAdd,
		Label:  e.texts.FavoriteAdd,
		Class:  ref.Class,
		Token:  callback.Encode(callback.FavoriteAddToken{StopRef: ref}),
	}
}

// FavoritesList renders the user's favorites grouped by class and sorted by key.
func (e *Engine) FavoritesList(ctx context.Context, userID string) (*models.View, error) {
	c, err := e.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &models.View{Kind: models.ViewFavorites, Day: e.Today()}
	for _, class := range models.VehicleClasses {
		for _, key := range c.Keys(class) {
			ref, err := models.ParseFavoriteKey(class, key)
			if err != nil {
				logging.LogWarning(e.logger, "skipping malformed favorite", err, slog.String("user", userID))
				continue
			}
			tok := callback.FavoriteShowToken{StopRef: ref}
			if !e.encodable(tok) {
				continue
			}
			entry, _ := c.Get(class, key)
			view.Buttons = append(view.Buttons, models.Button{
				Action: models.ActionSelect,
				Label:  e.favoriteLabel(entry.Number, entry.Stop, entry.Route),
				Class:  class,
				Token:  callback.Encode(tok),
			})
		}
	}

	if len(view.Buttons) == 0 {
		view.Empty = true
		for _, class := range models.VehicleClasses {
			view.Buttons = append(view.Buttons, models.Button{
				Action: models.ActionSelect,
				Label:  e.texts.ShowClass[class],
				Class:  class,
				Token:  callback.Encode(callback.ListToken{Class: class}),
			})
		}
	}
	return view, nil
}

// encodable drops buttons whose token would not survive the round trip, such
// as a vehicle number too long for the payload limit.
func (e *Engine) encodable(tok callback.Token) bool {
	if err := callback.Validate(tok); err != nil {
		e.logger.Warn("skipping button with unencodable token", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (e *Engine) back(tok callback.Token) models.Button {
	return models.Button{Action: models.ActionBack, Label: e.texts.Back, Token: callback.Encode(tok)}
}
