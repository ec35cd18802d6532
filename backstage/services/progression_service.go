package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velvetradio/backstage/backstage/database/models"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/economy/ledger"
	"github.com/velvetradio/backstage/backstage/events"
	"github.com/velvetradio/backstage/backstage/progression"
)

// maxSaveRetries bounds optimistic-concurrency retries. Conflicts past
// the bound are surfaced to the caller.
const maxSaveRetries = 3

// Profile is the derived, read-only view over a progression record.
type Profile struct {
	Progression  *models.UserProgression
	Level        progression.Level
	DisplayTitle string
	Progress     float64
	Capabilities progression.CapabilitySet
}

// ProgressionService orchestrates experience, influence and credit
// operations: load, transform through the pure engines, save with the
// loaded version, retry on conflict.
type ProgressionService struct {
	progressions repositories.ProgressionRepository
	tracker      *progression.Tracker
	ledger       *ledger.Ledger
	sink         events.Sink
}

func NewProgressionService(
	progressions repositories.ProgressionRepository,
	tracker *progression.Tracker,
	l *ledger.Ledger,
	sink events.Sink,
) *ProgressionService {
	return &ProgressionService{
		progressions: progressions,
		tracker:      tracker,
		ledger:       l,
		sink:         sink,
	}
}

// GetOrCreate returns the user's progression record, creating the
// zero-valued record on first touch.
func (s *ProgressionService) GetOrCreate(ctx context.Context, userID string) (*models.UserProgression, error) {
	p, err := s.progressions.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	var nf *repositories.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	p = &models.UserProgression{
		UserID:           userID,
		SubscriptionTier: string(ledger.TierFree),
	}
	if err := s.progressions.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile derives the level, display title, progress and capability
// flags from the stored record.
func (s *ProgressionService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	level := progression.LevelFor(p.Experience)
	return &Profile{
		Progression:  p,
		Level:        level,
		DisplayTitle: progression.DisplayTitle(p.Experience),
		Progress:     progression.ProgressFraction(p.Experience),
		Capabilities: progression.Capabilities(level),
	}, nil
}

// AwardExperience applies an experience delta and emits a level-up
// event when the derived level rises.
func (s *ProgressionService) AwardExperience(ctx context.Context, userID string, delta int64) (*progression.Result, error) {
	var result *progression.Result
	err := s.mutate(ctx, userID, func(p *models.UserProgression) error {
		var err error
		result, err = s.tracker.AddExperience(p, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		event := events.New(events.TypeLevelUp,
			fmt.Sprintf("Reached %s", progression.DisplayTitle(result.Experience))).
			WithUser(userID).
			WithField("old_level", int(result.OldLevel)).
			WithField("new_level", int(result.NewLevel)).
			WithField("experience", result.Experience)
		s.emit(ctx, event)
	}
	return result, nil
}

// AwardInfluence applies an influence delta. Influence never levels.
func (s *ProgressionService) AwardInfluence(ctx context.Context, userID string, delta int64) (*progression.Result, error) {
	var result *progression.Result
	err := s.mutate(ctx, userID, func(p *models.UserProgression) error {
		var err error
		result, err = s.tracker.AddInfluence(p, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GrantCredits adds credits to the balance and lifetime earned total.
func (s *ProgressionService) GrantCredits(ctx context.Context, userID string, amount int64, reason string) error {
	err := s.mutate(ctx, userID, func(p *models.UserProgression) error {
		return s.ledger.Grant(p, amount)
	})
	if err != nil {
		return err
	}

	event := events.New(events.TypeCreditsGranted, reason).
		WithUser(userID).
		WithField("amount", amount)
	s.emit(ctx, event)
	return nil
}

// SpendCredits deducts from the balance. The balance never goes
// negative; insufficient funds surface ledger.ErrInsufficientCredits.
func (s *ProgressionService) SpendCredits(ctx context.Context, userID string, amount int64) error {
	return s.mutate(ctx, userID, func(p *models.UserProgression) error {
		return s.ledger.Spend(p, amount)
	})
}

// RenewCredits grants the monthly allowance for the user's tier. Calls
// inside the renewal window fail with ledger.ErrRenewalNotEligible.
func (s *ProgressionService) RenewCredits(ctx context.Context, userID string) (int64, error) {
	var granted int64
	err := s.mutate(ctx, userID, func(p *models.UserProgression) error {
		amount := s.ledger.MonthlyAmount(ledger.Tier(p.SubscriptionTier))
		var err error
		granted, err = s.ledger.Renew(p, time.Now().UTC(), amount)
		return err
	})
	if err != nil {
		return 0, err
	}

	event := events.New(events.TypeRenewal, "Monthly credits renewed").
		WithUser(userID).
		WithField("amount", granted)
	s.emit(ctx, event)
	return granted, nil
}

// mutate runs the load-transform-save cycle with bounded retries on
// version conflicts.
func (s *ProgressionService) mutate(ctx context.Context, userID string, fn func(*models.UserProgression) error) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		p, err := s.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		loadedVersion := p.Version
		if err := fn(p); err != nil {
			return err
		}

		err = s.progressions.Save(ctx, p, loadedVersion)
		if err == nil {
			return nil
		}
		if !repositories.IsVersionConflict(err) {
			return err
		}
		lastErr = err
		slog.Warn("Progression save conflict, retrying",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Int("attempt", attempt+1))
	}
	return lastErr
}

func (s *ProgressionService) emit(ctx context.Context, event events.Event) {
	if err := s.sink.Emit(ctx, event); err != nil {
		slog.Error("Failed to emit progression event",
			slog.String("type", "eng"),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
	}
}
