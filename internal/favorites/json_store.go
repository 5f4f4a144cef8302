package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

// JSONStore keeps every user's favorites in one JSON object keyed by user id.
// Saves rewrite the file through a temp file and a rename, so a crash leaves
// either the old or the new content.
type JSONStore struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logging.Component(logger, "favorites").With(slog.String("backend", "json")),
	}
}

func (s *JSONStore) Load(ctx context.Context, userID string) (Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if c, ok := all[userID]; ok {
		return c.Clone(), nil
	}
	return NewCollection(), nil
}

func (s *JSONStore) Save(ctx context.Context, userID string, c Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A file we cannot parse is left alone rather than replaced by one user's data.
	all, err := s.readAll()
	if err != nil {
		return err
	}
	all[userID] = c.Clone()

	err = utils.WriteFileAtomic(s.path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(all)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.logger.Debug("favorites saved", slog.String("user", userID), slog.Int("entries", c.Len()))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) readAll() (map[string]Collection, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer logging.SafeCloseWithLogging(f, s.logger, "favorites file")

	all := map[string]Collection{}
	if err := json.NewDecoder(f).Decode(&all); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Collection{}, nil
		}
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if all == nil {
		all = map[string]Collection{}
	}
	for user, c := range all {
		if c == nil {
			c = Collection{}
			all[user] = c
		}
		c.normalize()
	}
	return all, nil
}
