// Package favorites keeps each user's saved stops. A favorite is stored under
// its "<number>_<route>_<stop>" key together with the names it resolved to
// when it was added.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// ErrFavoriteNotFound means the key did not resolve against today's schedule.
var ErrFavoriteNotFound = errors.New("favorite does not match the current schedule")

// PersistenceError wraps a failed load or save. The user's stored collection
// is unchanged when it is returned.
type PersistenceError struct {
	Op     string
	UserID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("favorites %s for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Entry is what a favorite resolved to when it was saved.
type Entry struct {
	Number string `json:"number"`
	Route  string `json:"route"`
	Stop   string `json:"stop"`
}

// Collection maps a favorites section ("buses", "trolleys") to key → entry.
type Collection map[string]map[string]Entry

// NewCollection returns an empty collection with every section present.
func NewCollection() Collection {
	c := Collection{}
	c.normalize()
	return c
}

func (c Collection) normalize() {
	for _, class := range models.VehicleClasses {
		if c[class.FavoritesSection()] == nil {
			c[class.FavoritesSection()] = map[string]Entry{}
		}
	}
}

func (c Collection) Get(class models.VehicleClass, key string) (Entry, bool) {
	e, ok := c[class.FavoritesSection()][key]
	return e, ok
}

func (c Collection) Put(class models.VehicleClass, key string, e Entry) {
	section := c[class.FavoritesSection()]
	if section == nil {
		section = map[string]Entry{}
		c[class.FavoritesSection()] = section
	}
	section[key] = e
}

// Delete removes key and reports whether it was there.
func (c Collection) Delete(class models.VehicleClass, key string) bool {
	section := c[class.FavoritesSection()]
	if _, ok := section[key]; !ok {
		return false
	}
	delete(section, key)
	return true
}

func (c Collection) Len() int {
	n := 0
	for _, section := range c {
		n += len(section)
	}
	return n
}

// Keys returns the keys saved for class in ascending order.
func (c Collection) Keys(class models.VehicleClass) []string {
	section := c[class.FavoritesSection()]
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies c so callers can modify the result freely.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for name, section := range c {
		copied := make(map[string]Entry, len(section))
		for k, e := range section {
			copied[k] = e
		}
		out[name] = copied
	}
	out.normalize()
	return out
}

// Store persists one collection per user. Save replaces the user's whole
// collection and never touches anyone else's.
type Store interface {
	Load(ctx context.Context, userID string) (Collection, error)
	Save(ctx context.Context, userID string, c Collection) error
	Close() error
}
