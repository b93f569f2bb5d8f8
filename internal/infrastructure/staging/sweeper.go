package staging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
)

const (
	sweepInterval = 1 * time.Minute
	retention     = 10 * time.Minute
)

// Sweeper periodically removes staged reports older than the retention
// window. Deletes are best-effort; a failed delete is retried on the next
// sweep because the file still matches the age cutoff.
type Sweeper struct {
	store    *Store
	interval time.Duration
	maxAge   time.Duration
	metrics  *observability.Metrics

	stop chan struct{}
	done chan struct{}
}

// NewSweeper creates a sweeper over the given store with default cadence.
func NewSweeper(store *Store, metrics *observability.Metrics) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: sweepInterval,
		maxAge:   retention,
		metrics:  metrics,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweepOnce(time.Now())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweepOnce(now time.Time) {
	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		log.Warn().Err(err).Str("dir", s.store.Dir()).Msg("Failed to read staging directory")
		return
	}

	cutoff := now.Add(-s.maxAge)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.store.Dir(), entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to delete expired report")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Info().Int("deleted", deleted).Msg("Swept expired staged reports")
		observability.RecordSweepDeleted(context.Background(), s.metrics, deleted)
	}
}
