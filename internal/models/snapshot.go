package models

import (
	"sort"
	"strconv"
	"time"
)

// Snapshot is an immutable generation of collected vehicles for one class.
// Callers must treat Vehicles as read-only; a refresh replaces the whole value.
type Snapshot struct {
	Class      VehicleClass
	Vehicles   map[string]*Vehicle
	FetchedAt  time.Time
	Generation uint64
}

// EmptySnapshot is what a store hands out when nothing was ever collected.
func EmptySnapshot(class VehicleClass) Snapshot {
	return Snapshot{Class: class, Vehicles: map[string]*Vehicle{}}
}

func (s Snapshot) Len() int {
	return len(s.Vehicles)
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Vehicles) == 0
}

func (s Snapshot) Vehicle(number string) (*Vehicle, bool) {
	v, ok := s.Vehicles[number]
	return v, ok && v != nil
}

// SortedVehicles orders numeric vehicle numbers by value first, then the rest
// lexically, which is how the vehicle list is shown.
func (s Snapshot) SortedVehicles() []*Vehicle {
	vehicles := make([]*Vehicle, 0, len(s.Vehicles))
	for _, v := range s.Vehicles {
		if v != nil {
			vehicles = append(vehicles, v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return LessVehicleNumber(vehicles[i].Number, vehicles[j].Number)
	})
	return vehicles
}

func LessVehicleNumber(a, b string) bool {
	na, aNumeric := numericVehicleNumber(a)
	nb, bNumeric := numericVehicleNumber(b)
	switch {
	case aNumeric && bNumeric:
		if na != nb {
			return na < nb
		}
		return a < b
	case aNumeric:
		return true
	case bNumeric:
		return false
	}
	return a < b
}

func numericVehicleNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
