package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/events"
	"github.com/velvetradio/backstage/backstage/growth"
	"github.com/velvetradio/backstage/backstage/logger"
)

// GrowthService applies the daily growth tick, either on demand for a
// single artist or across all due artists from the scheduler loop.
type GrowthService struct {
	artists repositories.ArtistRepository
	engine  *growth.Engine
	sink    events.Sink
}

func NewGrowthService(
	artists repositories.ArtistRepository,
	engine *growth.Engine,
	sink events.Sink,
) *GrowthService {
	return &GrowthService{
		artists: artists,
		engine:  engine,
		sink:    sink,
	}
}

// Start runs the daily sweep loop until the context is cancelled. The
// interval is deliberately shorter than a day; the engine's same-day
// guard makes re-sweeping cheap and idempotent.
func (s *GrowthService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ApplyDue(ctx); err != nil {
					slog.Error("Daily growth sweep failed",
						slog.String("type", "eng"),
						slog.Any("error", err))
				}
			}
		}
	}()
}

// ApplyDue applies growth to every artist not yet updated today.
// Per-artist failures are logged and skipped so one bad row never
// stalls the sweep.
func (s *GrowthService) ApplyDue(ctx context.Context) error {
	start := time.Now()
	now := start.UTC()
	due, err := s.artists.GetDueForGrowth(ctx, growth.DayOf(now))
	if err != nil {
		return err
	}

	applied := 0
	for _, artist := range due {
		if _, err := s.ApplyDailyGrowth(ctx, artist.ID, now); err != nil {
			if errors.Is(err, growth.ErrAlreadyAppliedToday) {
				continue
			}
			slog.Error("Daily growth failed for artist",
				slog.String("type", "eng"),
				slog.String("artist_id", artist.ID.String()),
				slog.Any("error", err))
			continue
		}
		applied++
	}

	if applied > 0 {
		logger.LogEngine("daily_growth_sweep", time.Since(start), nil)
	}
	return nil
}

// ApplyDailyGrowth runs one growth tick for a single artist with
// bounded retries on version conflicts.
func (s *GrowthService) ApplyDailyGrowth(ctx context.Context, artistID snowflake.ID, now time.Time) (*growth.Result, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		artist, err := s.artists.GetByID(ctx, artistID)
		if err != nil {
			return nil, err
		}
		loadedVersion := artist.Version

		result, err := s.engine.ApplyDailyGrowth(artist, now)
		if err != nil {
			return nil, err
		}

		err = s.artists.Save(ctx, artist, loadedVersion)
		if err == nil {
			event := events.New(events.TypeDailyGrowth, "Daily growth applied").
				WithUser(artist.UserID).
				WithArtist(artist.ID).
				WithField("fame_delta", result.FameDelta).
				WithField("new_fame", result.NewFame).
				WithField("streak", result.Streak).
				WithField("daily_streams", result.DailyStreams)
			if err := s.sink.Emit(ctx, event); err != nil {
				slog.Error("Failed to emit growth event",
					slog.String("type", "eng"),
					slog.Any("error", err))
			}
			return result, nil
		}
		if !repositories.IsVersionConflict(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
