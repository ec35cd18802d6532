package career

import (
	"math"

	"github.com/velvetradio/backstage/backstage/audio"
	"github.com/velvetradio/backstage/backstage/database/models"
)

// FanReaction buckets the audience response to a release.
type FanReaction string

const (
	ReactionPositive FanReaction = "positive"
	ReactionNeutral  FanReaction = "neutral"
	ReactionNegative FanReaction = "negative"
)

// ReleaseScore is the scored outcome for a single release event.
type ReleaseScore struct {
	MusicQuality     float64
	GenreConsistency float64
	ReleaseImpact    int
	FanReaction      FanReaction
}

// Scorer computes quality, impact and genre-consistency scores for a
// release. It is pure: it never mutates the artist history it reads.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score scores a release from its upstream audio features against the
// artist's established genre and prior catalog.
//
// A run of exact-genre releases at the tail of the history earns the
// mastery bonus, pushing consistency above 1.0: the release exceeds
// expectations for the artist's established genre.
func (s *Scorer) Score(features audio.Features, artistGenre string, history []*models.Release) ReleaseScore {
	quality := clampFloat(features.MusicQuality, 0, 1)
	releaseGenre := NormalizeGenre(features.DetectedGenreHint)

	consistency := s.cfg.GenreSimilarity(releaseGenre, artistGenre)
	if consistency == 1.0 && s.tailExactRun(history, artistGenre) >= s.cfg.MasteryRunLength {
		consistency *= s.cfg.MasteryRunBonus
	}

	impact := int(math.Round(quality * consistency * 100))
	if impact < 0 {
		impact = 0
	}

	return ReleaseScore{
		MusicQuality:     quality,
		GenreConsistency: consistency,
		ReleaseImpact:    impact,
		FanReaction:      s.reactionFor(quality),
	}
}

// MasteryAfter evolves genre mastery toward the new release's
// consistency, clamped to [0, MasteryCeiling].
func (s *Scorer) MasteryAfter(prev, consistency float64) float64 {
	next := prev + s.cfg.MasteryGainRate*(consistency-prev)
	return clampFloat(next, 0, s.cfg.MasteryCeiling)
}

// InitialMastery is the mastery assigned before any release history exists.
func (s *Scorer) InitialMastery() float64 {
	return s.cfg.InitialMastery
}

func (s *Scorer) reactionFor(quality float64) FanReaction {
	switch {
	case quality > s.cfg.PositiveReactionThreshold:
		return ReactionPositive
	case quality < s.cfg.NegativeReactionThreshold:
		return ReactionNegative
	default:
		return ReactionNeutral
	}
}

// tailExactRun counts consecutive exact-genre releases at the end of
// the chronologically ordered history.
func (s *Scorer) tailExactRun(history []*models.Release, artistGenre string) int {
	key := normalizeKey(NormalizeGenre(artistGenre))
	run := 0
	for i := len(history) - 1; i >= 0; i-- {
		if normalizeKey(NormalizeGenre(history[i].Genre)) != key {
			break
		}
		run++
	}
	return run
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
