// Package scraper collects schedules from the city transport reference site.
// A list page links to one page per vehicle; vehicle pages are fetched by a
// bounded pool of workers.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Temporary reports whether retrying the request could help.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Config struct {
	ListURL     string
	Skip        []string
	Concurrency int
	// MaxRetries is the number of retries after the first attempt of each request.
	MaxRetries     uint64
	InitialBackoff time.Duration
}

type Collector struct {
	config Config
	client Doer
	logger *slog.Logger
	skip   map[string]bool
}

func New(config Config, client Doer, logger *slog.Logger) *Collector {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 500 * time.Millisecond
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	skip := make(map[string]bool, len(config.Skip))
	for _, number := range config.Skip {
		skip[number] = true
	}
	return &Collector{
		config: config,
		client: client,
		logger: logging.Component(logger, "scraper"),
		skip:   skip,
	}
}

// listing is one row of the list page.
type listing struct {
	Number    string
	RouteName string
	URL       string
}

func (c *Collector) Collect(ctx context.Context, class models.VehicleClass) (map[string]*models.Vehicle, error) {
	start := time.Now()
	logger := c.logger.With(slog.String("class", string(class)))

	base, err := url.Parse(c.config.ListURL)
	if err != nil {
		return nil, fmt.Errorf("invalid list url %q: %w", c.config.ListURL, err)
	}

	doc, err := c.fetch(ctx, c.config.ListURL)
	if err != nil {
		return nil, fmt.Errorf("fetching vehicle list: %w", err)
	}

	var listings []listing
	for _, l := range parseList(doc, class) {
		if c.skip[l.Number] {
			logger.Debug("skipping vehicle", slog.String("number", l.Number))
			continue
		}
		ref, err := url.Parse(l.URL)
		if err != nil {
			return nil, &VehicleError{Number: l.Number, URL: l.URL, Err: err}
		}
		l.URL = base.ResolveReference(ref).String()
		listings = append(listings, l)
	}
	if len(listings) == 0 {
		return nil, errors.New("vehicle list page has no vehicles")
	}

	vehicles, err := c.scrapeVehicles(ctx, class, listings)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scraping vehicle pages: %w", err)
	}

	logging.LogOperation(logger, "vehicles_scraped",
		slog.Int("listed", len(listings)),
		slog.Int("scraped", len(vehicles)),
		slog.Duration("duration", time.Since(start)))
	return vehicles, nil
}

// VehicleError reports a vehicle page that could not be scraped. Any such
// failure fails the whole collection, so a refresh never drops a vehicle.
type VehicleError struct {
	Number string
	URL    string
	Err    error
}

func (e *VehicleError) Error() string {
	return fmt.Sprintf("vehicle %s (%s): %v", e.Number, e.URL, e.Err)
}

func (e *VehicleError) Unwrap() error {
	return e.Err
}

// scrapeVehicles fetches every vehicle page with at most Concurrency requests
// in flight. The first failed page cancels the rest and is returned.
func (c *Collector) scrapeVehicles(ctx context.Context, class models.VehicleClass, listings []listing) (map[string]*models.Vehicle, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan listing)
	var (
		mu       sync.Mutex
		firstErr error
	)
	vehicles := make(map[string]*models.Vehicle, len(listings))

	var wg sync.WaitGroup
	for i := 0; i < c.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				v, err := c.scrapeVehicle(ctx, class, l)
				mu.Lock()
				if err != nil {
					if firstErr == nil && ctx.Err() == nil {
						firstErr = &VehicleError{Number: l.Number, URL: l.URL, Err: err}
						cancel()
					}
				} else {
					vehicles[v.Number] = v
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, l := range listings {
		select {
		case jobs <- l:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		logging.LogWarning(c.logger, "failed to scrape vehicle page", firstErr,
			slog.String("class", string(class)))
		return nil, firstErr
	}
	return vehicles, nil
}

func (c *Collector) scrapeVehicle(ctx context.Context, class models.VehicleClass, l listing) (*models.Vehicle, error) {
	doc, err := c.fetch(ctx, l.URL)
	if err != nil {
		return nil, err
	}

	v := &models.Vehicle{Number: l.Number, RouteName: l.RouteName}
	if class == models.Trolleybus {
		v.WeekdayRoutes, v.WeekendRoutes, err = parseTrolleybusPage(doc, l.RouteName)
	} else {
		v.WeekdayRoutes, v.WeekendRoutes, err = parseBusPage(doc)
	}
	if err != nil {
		return nil, err
	}
	v.Normalize(l.Number)
	return v, nil
}

// fetch GETs rawURL and parses the body, retrying transport errors and
// temporary statuses with exponential backoff.
func (c *Collector) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.InitialBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.config.MaxRetries), ctx)

	return backoff.RetryNotifyWithData(func() (*goquery.Document, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "mglv-public-transport-bot")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer logging.SafeCloseWithLogging(resp.Body, c.logger, "scraper response body")

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
			if !statusErr.Temporary() {
				return nil, backoff.Permanent(statusErr)
			}
			return nil, statusErr
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
		}
		return doc, nil
	}, policy, func(err error, wait time.Duration) {
		c.logger.Debug("retrying request",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
			slog.Duration("wait", wait))
	})
}
