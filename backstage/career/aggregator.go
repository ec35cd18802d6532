package career

import (
	"github.com/velvetradio/backstage/backstage/database/models"
)

// Trend labels for the artistic growth trend.
const (
	TrendAscending        = "Ascending"
	TrendDeclining        = "Declining"
	TrendStable           = "Stable"
	TrendInsufficientData = "Insufficient Data"
)

// CareerStats is the folded view over an artist's releases and
// evolution history.
type CareerStats struct {
	TotalReleases         int
	GenreConsistencyScore float64
	BestPerformingRelease *models.Release
	ArtisticGrowthTrend   string
	CareerHighlights      []string
}

// Aggregator folds release and evolution sequences into career-level
// statistics. Aggregate is a pure function over its inputs.
type Aggregator struct {
	cfg Config
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate folds chronologically ordered releases and evolutions.
// An empty catalog yields neutral stats, never a division by zero.
func (a *Aggregator) Aggregate(releases []*models.Release, evolutions []*models.ArtistEvolution) CareerStats {
	stats := CareerStats{
		TotalReleases:         len(releases),
		GenreConsistencyScore: 1.0,
		ArtisticGrowthTrend:   a.growthTrend(evolutions),
		CareerHighlights:      a.highlights(releases),
	}

	if len(releases) == 0 {
		return stats
	}

	var consistencySum float64
	best := releases[0]
	for _, r := range releases {
		consistencySum += r.GenreConsistency
		if r.Streams > best.Streams ||
			(r.Streams == best.Streams && r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}

	stats.GenreConsistencyScore = consistencySum / float64(len(releases))
	stats.BestPerformingRelease = best
	return stats
}

// growthTrend compares the mean genre mastery of the first half of the
// evolution history against the second half.
func (a *Aggregator) growthTrend(evolutions []*models.ArtistEvolution) string {
	if len(evolutions) < 2 {
		return TrendInsufficientData
	}

	mid := len(evolutions) / 2
	firstMean := meanMastery(evolutions[:mid])
	secondMean := meanMastery(evolutions[mid:])

	switch {
	case secondMean-firstMean > a.cfg.TrendThreshold:
		return TrendAscending
	case firstMean-secondMean > a.cfg.TrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// highlights evaluates the fixed highlight rules in declaration order.
// Same input always yields the same list in the same order.
func (a *Aggregator) highlights(releases []*models.Release) []string {
	var out []string

	topTen := false
	chartTopper := false
	positives := 0
	streamingHit := false
	for _, r := range releases {
		if r.PeakChartPosition >= 1 && r.PeakChartPosition <= a.cfg.TopTenCutoff {
			topTen = true
		}
		if r.PeakChartPosition == 1 {
			chartTopper = true
		}
		if FanReaction(r.FanReaction) == ReactionPositive {
			positives++
		}
		if r.Streams >= a.cfg.StreamingHitStreams {
			streamingHit = true
		}
	}

	if topTen {
		out = append(out, "Top 10 Hit")
	}
	if chartTopper {
		out = append(out, "Chart Topper")
	}
	if positives >= a.cfg.FanFavoriteCount {
		out = append(out, "Fan Favorite")
	}
	if streamingHit {
		out = append(out, "Streaming Hit")
	}
	return out
}

func meanMastery(evolutions []*models.ArtistEvolution) float64 {
	if len(evolutions) == 0 {
		return 0
	}
	var sum float64
	for _, e := range evolutions {
		sum += e.GenreMastery
	}
	return sum / float64(len(evolutions))
}
