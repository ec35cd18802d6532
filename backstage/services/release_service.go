package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/velvetradio/backstage/backstage/audio"
	"github.com/velvetradio/backstage/backstage/career"
	"github.com/velvetradio/backstage/backstage/database/models"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/events"
)

// releaseExperienceBase is the flat experience award for publishing a
// release; impact adds on top.
const releaseExperienceBase = 10

// maxArtistFame mirrors the growth engine's fame cap. Releases cannot
// push an artist past it either.
const maxArtistFame = 100

// ReleaseResult bundles the scored release with the applied deltas.
type ReleaseResult struct {
	Release      *models.Release
	Evolution    *models.ArtistEvolution
	FameDelta    int
	FanbaseDelta int
}

// ReleaseService orchestrates the release pipeline: analyze, score,
// persist the release and evolution records, apply fame and fanbase
// deltas to the artist, award experience to the owner.
type ReleaseService struct {
	artists      repositories.ArtistRepository
	releases     repositories.ReleaseRepository
	evolutions   repositories.EvolutionRepository
	progressions *ProgressionService
	analyzer     audio.Analyzer
	scorer       *career.Scorer
	aggregator   *career.Aggregator
	sink         events.Sink

	// statsCache holds folded career stats per artist, dropped whenever
	// a new release lands for that artist.
	statsCache *lru.Cache
}

func NewReleaseService(
	artists repositories.ArtistRepository,
	releases repositories.ReleaseRepository,
	evolutions repositories.EvolutionRepository,
	progressions *ProgressionService,
	analyzer audio.Analyzer,
	scorer *career.Scorer,
	aggregator *career.Aggregator,
	sink events.Sink,
) *ReleaseService {
	cache, _ := lru.New(1024)
	return &ReleaseService{
		artists:      artists,
		releases:     releases,
		evolutions:   evolutions,
		progressions: progressions,
		analyzer:     analyzer,
		scorer:       scorer,
		aggregator:   aggregator,
		sink:         sink,
		statsCache:   cache,
	}
}

// CreateRelease runs the full pipeline for one uploaded track. The
// release and evolution records are written first; the artist's fame
// and fanbase deltas are only saved once both inserts succeeded, so a
// failed insert never leaves fame applied without a release behind it.
func (s *ReleaseService) CreateRelease(ctx context.Context, artistID snowflake.ID, title, fileRef string) (*ReleaseResult, error) {
	features, err := s.analyzer.Analyze(ctx, fileRef)
	if err != nil {
		return nil, err
	}
	return s.CreateReleaseFromFeatures(ctx, artistID, title, features)
}

// CreateReleaseFromFeatures is the analyzer-independent entry point for
// callers that already hold the feature record.
func (s *ReleaseService) CreateReleaseFromFeatures(ctx context.Context, artistID snowflake.ID, title string, features audio.Features) (*ReleaseResult, error) {
	artist, err := s.artists.GetByID(ctx, artistID)
	if err != nil {
		return nil, err
	}

	history, err := s.releases.GetByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}

	score := s.scorer.Score(features, artist.Genre, history)

	prevMastery := s.scorer.InitialMastery()
	evolutions, err := s.evolutions.GetByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if len(evolutions) > 0 {
		prevMastery = evolutions[len(evolutions)-1].GenreMastery
	}
	mastery := s.scorer.MasteryAfter(prevMastery, score.GenreConsistency)

	fameDelta, fanbaseDelta := s.deltasFor(score)

	release := &models.Release{
		ID:               snowflake.New(time.Now().UTC()),
		ArtistID:         artistID,
		Title:            title,
		Genre:            career.NormalizeGenre(features.DetectedGenreHint),
		MusicQuality:     score.MusicQuality,
		GenreConsistency: score.GenreConsistency,
		ReleaseImpact:    score.ReleaseImpact,
		FanReaction:      string(score.FanReaction),
	}
	if err := s.releases.Create(ctx, release); err != nil {
		return nil, err
	}

	evolution := &models.ArtistEvolution{
		ArtistID:                 artistID,
		ReleaseID:                release.ID,
		GenreMastery:             mastery,
		FameChangeFromRelease:    fameDelta,
		FanbaseChangeFromRelease: fanbaseDelta,
	}
	if err := s.evolutions.Create(ctx, evolution); err != nil {
		return nil, err
	}
	s.statsCache.Remove(artistID)

	if err := s.applyArtistDeltas(ctx, artistID, fameDelta, fanbaseDelta); err != nil {
		return nil, err
	}

	if _, err := s.progressions.AwardExperience(ctx, artist.UserID,
		releaseExperienceBase+int64(score.ReleaseImpact)); err != nil {
		slog.Error("Failed to award release experience",
			slog.String("type", "eng"),
			slog.String("user_id", artist.UserID),
			slog.Any("error", err))
	}

	event := events.New(events.TypeReleaseScored, "Release scored").
		WithUser(artist.UserID).
		WithArtist(artistID).
		WithField("release_id", release.ID.String()).
		WithField("title", title).
		WithField("impact", score.ReleaseImpact).
		WithField("reaction", string(score.FanReaction)).
		WithField("fame_delta", fameDelta)
	if err := s.sink.Emit(ctx, event); err != nil {
		slog.Error("Failed to emit release event",
			slog.String("type", "eng"),
			slog.Any("error", err))
	}

	return &ReleaseResult{
		Release:      release,
		Evolution:    evolution,
		FameDelta:    fameDelta,
		FanbaseDelta: fanbaseDelta,
	}, nil
}

// GetCareerStats folds the artist's catalog into career statistics,
// served from cache until the next release invalidates it.
func (s *ReleaseService) GetCareerStats(ctx context.Context, artistID snowflake.ID) (*career.CareerStats, error) {
	if cached, ok := s.statsCache.Get(artistID); ok {
		return cached.(*career.CareerStats), nil
	}

	releases, err := s.releases.GetByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	evolutions, err := s.evolutions.GetByArtistID(ctx, artistID)
	if err != nil {
		return nil, err
	}
	stats := s.aggregator.Aggregate(releases, evolutions)
	s.statsCache.Add(artistID, &stats)
	return &stats, nil
}

// deltasFor maps a scored release onto fame and fanbase movement. A
// negative reception costs fame and fans; the artist repository clamps
// nothing here, so the floor is applied at save time.
func (s *ReleaseService) deltasFor(score career.ReleaseScore) (fameDelta int, fanbaseDelta int) {
	switch score.FanReaction {
	case career.ReactionPositive:
		return int(math.Round(float64(score.ReleaseImpact) / 10)), score.ReleaseImpact * 25
	case career.ReactionNegative:
		return -2, -score.ReleaseImpact * 5
	default:
		return int(math.Round(float64(score.ReleaseImpact) / 20)), score.ReleaseImpact * 10
	}
}

func (s *ReleaseService) applyArtistDeltas(ctx context.Context, artistID snowflake.ID, fameDelta, fanbaseDelta int) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		artist, err := s.artists.GetByID(ctx, artistID)
		if err != nil {
			return err
		}
		loadedVersion := artist.Version

		artist.CurrentFame += fameDelta
		if artist.CurrentFame < 0 {
			artist.CurrentFame = 0
		}
		if artist.CurrentFame > maxArtistFame {
			artist.CurrentFame = maxArtistFame
		}
		artist.Fanbase += int64(fanbaseDelta)
		if artist.Fanbase < 0 {
			artist.Fanbase = 0
		}

		err = s.artists.Save(ctx, artist, loadedVersion)
		if err == nil {
			return nil
		}
		if !repositories.IsVersionConflict(err) {
			return err
		}
		lastErr = err
		slog.Warn("Artist save conflict, retrying",
			slog.String("type", "db"),
			slog.String("artist_id", artistID.String()),
			slog.Int("attempt", attempt+1))
	}
	return lastErr
}
