package schedule

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

// LoadSnapshotFile seeds the store from SnapshotPath. The file's modification
// time becomes the fetch time, so an old file is refreshed on first read.
// A missing file is not an error.
func (s *Store) LoadSnapshotFile() error {
	path := s.config.SnapshotPath
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error opening snapshot file: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, s.logger, "snapshot_file_read")

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("error reading snapshot file: %w", err)
	}

	vehicles, err := models.DecodeVehicles(f)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if cur := s.current.Load(); cur != nil && !cur.FetchedAt.Before(info.ModTime()) {
		return nil
	}
	s.generation++
	s.current.Store(&models.Snapshot{
		Class:      s.config.Class,
		Vehicles:   vehicles,
		FetchedAt:  info.ModTime(),
		Generation: s.generation,
	})

	logging.LogOperation(s.logger, "schedule_loaded_from_file",
		slog.String("path", path),
		slog.Int("vehicles", len(vehicles)),
		slog.Time("fetched_at", info.ModTime()))
	return nil
}

func writeSnapshotFile(path string, vehicles map[string]*models.Vehicle) error {
	return utils.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return models.EncodeVehicles(w, vehicles)
	})
}
