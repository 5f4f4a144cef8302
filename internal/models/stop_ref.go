package models

import (
	"fmt"
	"strconv"
	"strings"
)

// StopRef points at one stop of one direction of a vehicle. Indices are
// positions in the day-type's route list, so they only make sense together
// with the snapshot they were read from.
type StopRef struct {
	Class  VehicleClass
	Number string
	Route  int
	Stop   int
}

// FavoriteKey is the "<number>_<route>_<stop>" key favorites are stored under.
func (r StopRef) FavoriteKey() string {
	return r.Number + "_" + strconv.Itoa(r.Route) + "_" + strconv.Itoa(r.Stop)
}

// ParseFavoriteKey is the inverse of StopRef.FavoriteKey. The number itself
// never contains "_", so the last two fields are always the indices.
func ParseFavoriteKey(class VehicleClass, key string) (StopRef, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 || parts[0] == "" {
		return StopRef{}, fmt.Errorf("malformed favorite key %q", key)
	}
	route, err := strconv.Atoi(parts[1])
	if err != nil || route < 0 {
		return StopRef{}, fmt.Errorf("malformed favorite key %q", key)
	}
	stop, err := strconv.Atoi(parts[2])
	if err != nil || stop < 0 {
		return StopRef{}, fmt.Errorf("malformed favorite key %q", key)
	}
	return StopRef{Class: class, Number: parts[0], Route: route, Stop: stop}, nil
}
