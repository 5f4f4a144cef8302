// Package gtfsfeed builds schedules from a static GTFS feed, for cities that
// publish one instead of HTML timetables.
package gtfsfeed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Collector struct {
	source string
	client Doer
	logger *slog.Logger
}

// New reads the feed from source, which is either an http(s) URL or a local path.
func New(source string, client Doer, logger *slog.Logger) *Collector {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Collector{
		source: source,
		client: client,
		logger: logging.Component(logger, "gtfs_collector"),
	}
}

func (c *Collector) isLocalFile() bool {
	return !strings.HasPrefix(c.source, "http://") && !strings.HasPrefix(c.source, "https://")
}

func (c *Collector) Collect(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
	start := time.Now()

	b, err := c.rawData(ctx)
	if err != nil {
		return nil, err
	}
	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	if len(staticData.Warnings) > 0 {
		c.logger.Debug("GTFS feed parsed with warnings", slog.Int("warnings", len(staticData.Warnings)))
	}

	vehicles := BuildVehicles(staticData, class)
	logging.LogOperation(c.logger, "gtfs_vehicles_built",
		slog.String("class", string(class)),
		slog.Int("routes", len(staticData.Routes)),
		slog.Int("vehicles", len(vehicles)),
		slog.Duration("duration", time.Since(start)))
	return vehicles, nil
}

func (c *Collector) rawData(ctx context.Context) ([]byte, error) {
	if c.isLocalFile() {
		b, err := os.ReadFile(c.source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "GTFS response body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// Route types (basic and extended) that belong to each vehicle class.
func routeClass(t int64) (models.VehicleClass, bool) {
	switch {
	case t == 3 || (t >= 700 && t < 800):
		return models.Bus, true
	case t == 11 || t == 800:
		return models.Trolleybus, true
	}
	return "", false
}

// groupKey selects the trips that share one direction of one vehicle on one day-type.
type groupKey struct {
	number    string
	day       models.DayType
	direction int64
}

// BuildVehicles turns the feed's routes of class into vehicles. The vehicle
// number is the route's short name and each direction becomes one route,
// ordered by direction id. The stop list of a direction is taken from its
// longest trip; every trip that serves those stops contributes departures.
func BuildVehicles(staticData *gtfs.Static, class models.VehicleClass) map[string]*models.Vehicle {
	vehicles := map[string]*models.Vehicle{}
	groups := map[groupKey][]*gtfs.ScheduledTrip{}

	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil || trip.Service == nil || len(trip.StopTimes) == 0 {
			continue
		}
		if c, ok := routeClass(int64(trip.Route.Type)); !ok || c != class {
			continue
		}
		number := strings.TrimSpace(trip.Route.ShortName)
		if number == "" {
			continue
		}

		if _, ok := vehicles[number]; !ok {
			vehicles[number] = &models.Vehicle{
				Number:    number,
				RouteName: strings.TrimSpace(trip.Route.LongName),
			}
		}
		for _, day := range serviceDays(trip.Service) {
			key := groupKey{number: number, day: day, direction: int64(trip.DirectionId)}
			groups[key] = append(groups[key], trip)
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].direction < keys[j].direction
	})

	for _, k := range keys {
		v := vehicles[k.number]
		route := buildRoute(groups[k])
		if k.day == models.Weekend {
			v.WeekendRoutes = append(v.WeekendRoutes, route)
		} else {
			v.WeekdayRoutes = append(v.WeekdayRoutes, route)
		}
	}

	for number, v := range vehicles {
		if v.RouteName == "" {
			if len(v.WeekdayRoutes) > 0 {
				v.RouteName = v.WeekdayRoutes[0].Name
			} else if len(v.WeekendRoutes) > 0 {
				v.RouteName = v.WeekendRoutes[0].Name
			}
		}
		v.Normalize(number)
	}
	return vehicles
}

func serviceDays(s *gtfs.Service) []models.DayType {
	var days []models.DayType
	if s.Monday || s.Tuesday || s.Wednesday || s.Thursday || s.Friday {
		days = append(days, models.Weekday)
	}
	if s.Saturday || s.Sunday {
		days = append(days, models.Weekend)
	}
	return days
}

func buildRoute(trips []*gtfs.ScheduledTrip) models.Route {
	representative := trips[0]
	for _, t := range trips[1:] {
		if len(t.StopTimes) > len(representative.StopTimes) {
			representative = t
		}
	}

	stops := make([]models.Stop, 0, len(representative.StopTimes))
	position := map[string]int{}
	for _, st := range representative.StopTimes {
		if st.Stop == nil {
			continue
		}
		if _, seen := position[st.Stop.Id]; !seen {
			position[st.Stop.Id] = len(stops)
		}
		stops = append(stops, models.Stop{Name: strings.TrimSpace(st.Stop.Name)})
	}

	minutes := make([][]int, len(stops))
	for _, t := range trips {
		for _, st := range t.StopTimes {
			if st.Stop == nil {
				continue
			}
			p, ok := position[st.Stop.Id]
			if !ok {
				continue
			}
			dep := st.DepartureTime
			if dep == 0 {
				dep = st.ArrivalTime
			}
			minutes[p] = append(minutes[p], int(dep/time.Minute))
		}
	}
	for i := range stops {
		stops[i].Times = formatDepartures(minutes[i])
	}

	name := strings.TrimSpace(representative.Headsign)
	if name == "" && len(stops) > 0 {
		name = stops[0].Name + " - " + stops[len(stops)-1].Name
	}
	return models.Route{Name: name, Stops: stops}
}

// formatDepartures sorts, dedupes and formats minutes after midnight.
func formatDepartures(minutes []int) []string {
	sort.Ints(minutes)
	times := make([]string, 0, len(minutes))
	for i, m := range minutes {
		if i > 0 && m == minutes[i-1] {
			continue
		}
		times = append(times, models.FormatDeparture(m))
	}
	return times
}
