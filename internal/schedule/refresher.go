package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Start launches the background reload when RefreshInterval is positive.
// It is safe to call more than once.
func (s *Store) Start() {
	if s.config.RefreshInterval <= 0 {
		return
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.refreshPeriodically()
	})
}

// Shutdown stops the background reload and waits for it to exit.
func (s *Store) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		s.wg.Wait()
	})
}

func (s *Store) refreshPeriodically() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Shutdown cancels a reload that is still collecting.
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				select {
				case <-s.shutdownChan:
					cancel()
				case <-done:
				}
			}()
			snap := s.Get(ctx, true)
			close(done)
			cancel()
			s.logger.Debug("periodic schedule reload finished",
				slog.Uint64("generation", snap.Generation),
				slog.Int("vehicles", snap.Len()))
		case <-s.shutdownChan:
			s.logger.Info("shutting down periodic schedule reload")
			return
		}
	}
}
