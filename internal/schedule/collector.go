package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// Collector produces a complete, fresh set of vehicles for one class.
// Implementations should honour ctx; the store enforces its timeout either way.
type Collector interface {
	Collect(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error)

func (f CollectorFunc) Collect(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
	return f(ctx, class)
}

// ErrNoVehicles is returned when a collector succeeds but yields nothing usable.
var ErrNoVehicles = errors.New("collector returned no vehicles")

// CollectorError reports a failed refresh. The store absorbs it; it only
// reaches callers of Refresh.
type CollectorError struct {
	Class models.VehicleClass
	Err   error
}

func (e *CollectorError) Error() string {
	return fmt.Sprintf("collecting %s schedule: %v", e.Class, e.Err)
}

func (e *CollectorError) Unwrap() error {
	return e.Err
}
