package charts

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/velvetradio/backstage/backstage/database/models"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/events"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	batchSize            = 50
	maxConcurrentBatches = 5
)

// snapshotPublisher is the publication half of the snapshot store.
type snapshotPublisher interface {
	Publish(ctx context.Context, artists []*models.Artist, positions map[snowflake.ID]int) error
}

// Scheduler drives the periodic full-population chart recompute. Rank
// reads a consistent snapshot and may lag individual entity updates by
// one interval; it never blocks other operations.
type Scheduler struct {
	ranker   *Ranker
	artists  repositories.ArtistRepository
	releases repositories.ReleaseRepository
	store    snapshotPublisher
	sink     events.Sink
	sem      *semaphore.Weighted
	interval time.Duration

	isRanking atomic.Bool
}

func NewScheduler(
	ranker *Ranker,
	artists repositories.ArtistRepository,
	releases repositories.ReleaseRepository,
	store snapshotPublisher,
	sink events.Sink,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		ranker:   ranker,
		artists:  artists,
		releases: releases,
		store:    store,
		sink:     sink,
		sem:      semaphore.NewWeighted(maxConcurrentBatches),
		interval: interval,
	}
}

// Start runs the recompute loop until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.RecomputeAll(ctx); err != nil {
					slog.Error("Chart recompute failed",
						slog.String("type", "eng"),
						slog.Any("error", err))
				}
			}
		}
	}()
}

// RecomputeAll ranks the whole population, persists positions, updates
// release chart peaks and publishes the snapshot. Overlapping runs are
// skipped rather than queued.
func (s *Scheduler) RecomputeAll(ctx context.Context) error {
	if !s.isRanking.CompareAndSwap(false, true) {
		slog.Warn("Chart recompute already in progress, skipping",
			slog.String("type", "eng"))
		return nil
	}
	defer s.isRanking.Store(false)

	start := time.Now()

	artists, err := s.artists.GetAll(ctx)
	if err != nil {
		return err
	}

	positions := s.ranker.Rank(artists)

	previous := make(map[snowflake.ID]int, len(artists))
	for _, artist := range artists {
		previous[artist.ID] = artist.ChartPosition
	}

	ids := make([]snowflake.ID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]

		g.Go(func() error {
			if err := s.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer s.sem.Release(1)

			chunk := make(map[snowflake.ID]int, len(batch))
			for _, id := range batch {
				chunk[id] = positions[id]
			}
			return s.artists.UpdateChartPositions(gctx, chunk)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.recordPeaksAndEvents(ctx, artists, previous, positions)

	if err := s.store.Publish(ctx, artists, positions); err != nil {
		slog.Error("Failed to publish chart snapshot",
			slog.String("type", "eng"),
			slog.Any("error", err))
	}

	slog.Info("Chart recompute completed",
		slog.String("type", "eng"),
		slog.Int("artists", len(artists)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// recordPeaksAndEvents updates the charting release's peak position and
// emits chart-entry events for artists newly on the chart or at a new
// best position. Event delivery failures are logged, never fatal.
func (s *Scheduler) recordPeaksAndEvents(ctx context.Context, artists []*models.Artist, previous, positions map[snowflake.ID]int) {
	for _, artist := range artists {
		pos := positions[artist.ID]
		if pos == 0 {
			continue
		}

		latest, err := s.releases.GetLatestByArtistID(ctx, artist.ID)
		var notFound *repositories.NotFoundError
		switch {
		case err == nil:
			if err := s.releases.ImprovePeakPosition(ctx, latest.ID, pos); err != nil {
				slog.Error("Failed to record release chart peak",
					slog.String("type", "db"),
					slog.String("artist_id", artist.ID.String()),
					slog.Any("error", err))
			}
		case errors.As(err, &notFound):
			// A charting artist with no releases yet has no peak to record.
		default:
			slog.Error("Failed to load latest release for chart peak",
				slog.String("type", "db"),
				slog.String("artist_id", artist.ID.String()),
				slog.Any("error", err))
		}

		prev := previous[artist.ID]
		if prev != 0 && pos >= prev {
			continue
		}

		event := events.New(events.TypeChartEntry, "Artist entered the charts").
			WithUser(artist.UserID).
			WithArtist(artist.ID).
			WithField("position", pos).
			WithField("previous_position", prev)
		if err := s.sink.Emit(ctx, event); err != nil {
			slog.Error("Failed to emit chart event",
				slog.String("type", "eng"),
				slog.Any("error", err))
		}
	}
}
