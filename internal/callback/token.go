// Package callback encodes and decodes the navigation tokens carried by
// inline buttons. Tokens are "_"-joined fields with a fixed arity per kind.
package callback

import (
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

type Kind string

const (
	KindList           Kind = "list"
	KindDirections     Kind = "directions"
	KindStops          Kind = "stops"
	KindSchedule       Kind = "schedule"
	KindToggle         Kind = "toggle"
	KindFavoriteShow   Kind = "favorite_show"
	KindFavoriteAdd    Kind = "favorite_add"
	KindFavoriteDelete Kind = "favorite_delete"
	KindFavorites      Kind = "favorites"
	KindFavoriteAck    Kind = "favorite_ack"
)

// Token is one decoded navigation position. The concrete types below are the
// only implementations.
type Token interface {
	Kind() Kind
	isToken()
}

// StopRef addresses a stop by the indices it had when the token was issued.
type StopRef = models.StopRef

// ListToken shows every vehicle of a class.
type ListToken struct {
	Class models.VehicleClass
}

// DirectionsToken shows the directions of one vehicle for today.
type DirectionsToken struct {
	Class  models.VehicleClass
	Number string
}

// StopsToken shows the stops of one direction for today.
type StopsToken struct {
	Class  models.VehicleClass
	Number string
	Route  int
}

// ScheduleToken shows departures at a stop for the day-type captured at issue time.
type ScheduleToken struct {
	StopRef
	Day models.DayType
}

// ToggleToken re-renders a schedule for Day, keeping the favorites origin.
type ToggleToken struct {
	StopRef
	Day           models.DayType
	FromFavorites bool
}

// FavoriteShowToken opens a saved favorite with today's day-type.
type FavoriteShowToken struct {
	StopRef
}

type FavoriteAddToken struct {
	StopRef
}

type FavoriteDeleteToken struct {
	StopRef
}

// FavoritesToken goes back to the user's favorites list.
type FavoritesToken struct{}

// FavoriteAckToken is attached to the "already saved" button; it only
// produces a notice.
type FavoriteAckToken struct{}

func (ListToken) Kind() Kind           { return KindList }
func (DirectionsToken) Kind() Kind     { return KindDirections }
func (StopsToken) Kind() Kind          { return KindStops }
func (ScheduleToken) Kind() Kind       { return KindSchedule }
func (ToggleToken) Kind() Kind         { return KindToggle }
func (FavoriteShowToken) Kind() Kind   { return KindFavoriteShow }
func (FavoriteAddToken) Kind() Kind    { return KindFavoriteAdd }
func (FavoriteDeleteToken) Kind() Kind { return KindFavoriteDelete }
func (FavoritesToken) Kind() Kind      { return KindFavorites }
func (FavoriteAckToken) Kind() Kind    { return KindFavoriteAck }

func (ListToken) isToken()           {}
func (DirectionsToken) isToken()     {}
func (StopsToken) isToken()          {}
func (ScheduleToken) isToken()       {}
func (ToggleToken) isToken()         {}
func (FavoriteShowToken) isToken()   {}
func (FavoriteAddToken) isToken()    {}
func (FavoriteDeleteToken) isToken() {}
func (FavoritesToken) isToken()      {}
func (FavoriteAckToken) isToken()    {}
