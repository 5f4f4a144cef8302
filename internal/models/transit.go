package models

import (
	"fmt"
	"strings"
	"time"
)

// VehicleClass selects which schedule store, token prefix and favorites
// section a request refers to.
type VehicleClass string

const (
	Bus        VehicleClass = "bus"
	Trolleybus VehicleClass = "trolleybus"
)

// VehicleClasses lists every class in display order.
var VehicleClasses = []VehicleClass{Bus, Trolleybus}

func ParseVehicleClass(s string) (VehicleClass, error) {
	switch VehicleClass(s) {
	case Bus, Trolleybus:
		return VehicleClass(s), nil
	}
	return "", fmt.Errorf("unknown vehicle class %q", s)
}

// FavoritesSection is the key the class is stored under in a user's favorites.
func (c VehicleClass) FavoritesSection() string {
	if c == Trolleybus {
		return "trolleys"
	}
	return "buses"
}

// DayType is the weekday/weekend selector for a schedule.
type DayType string

const (
	Weekday DayType = "wd"
	Weekend DayType = "we"
)

func ParseDayType(s string) (DayType, error) {
	switch DayType(s) {
	case Weekday, Weekend:
		return DayType(s), nil
	}
	return "", fmt.Errorf("unknown day type %q", s)
}

// DayTypeFor returns the day-type of t in its own location.
func DayTypeFor(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	}
	return Weekday
}

func (d DayType) Opposite() DayType {
	if d == Weekend {
		return Weekday
	}
	return Weekend
}

type Stop struct {
	Name  string   `json:"name"`
	Times []string `json:"times"`
}

type Route struct {
	Name  string `json:"name"`
	Stops []Stop `json:"stops"`
}

// Vehicle is one numbered line with its weekday and weekend directions.
// Route order is the direction index handed out in navigation tokens.
type Vehicle struct {
	Number        string  `json:"number"`
	RouteName     string  `json:"route_name"`
	WeekdayRoutes []Route `json:"route_weekdays"`
	WeekendRoutes []Route `json:"route_weekends"`
}

func (v *Vehicle) Routes(day DayType) []Route {
	if day == Weekend {
		return v.WeekendRoutes
	}
	return v.WeekdayRoutes
}

// Route returns the direction at index for day, or false when out of range.
func (v *Vehicle) Route(day DayType, index int) (Route, bool) {
	routes := v.Routes(day)
	if index < 0 || index >= len(routes) {
		return Route{}, false
	}
	return routes[index], true
}

// Stop resolves a (direction, stop) index pair for day.
func (v *Vehicle) Stop(day DayType, routeIndex, stopIndex int) (Route, Stop, bool) {
	route, ok := v.Route(day, routeIndex)
	if !ok || stopIndex < 0 || stopIndex >= len(route.Stops) {
		return Route{}, Stop{}, false
	}
	return route, route.Stops[stopIndex], true
}

// Normalize fills the defaults collectors and snapshot files may leave out.
// fallbackNumber is used when the record carries no number of its own.
func (v *Vehicle) Normalize(fallbackNumber string) {
	v.Number = strings.TrimSpace(v.Number)
	if v.Number == "" {
		v.Number = fallbackNumber
	}
	v.RouteName = strings.TrimSpace(v.RouteName)
	v.WeekdayRoutes = normalizeRoutes(v.WeekdayRoutes)
	v.WeekendRoutes = normalizeRoutes(v.WeekendRoutes)
}

func normalizeRoutes(routes []Route) []Route {
	if routes == nil {
		return []Route{}
	}
	for i := range routes {
		routes[i].Name = strings.TrimSpace(routes[i].Name)
		if routes[i].Stops == nil {
			routes[i].Stops = []Stop{}
		}
		for j := range routes[i].Stops {
			stop := &routes[i].Stops[j]
			stop.Name = strings.TrimSpace(stop.Name)
			if stop.Times == nil {
				stop.Times = []string{}
			}
		}
	}
	return routes
}
