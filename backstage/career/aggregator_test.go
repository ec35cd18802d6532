package career

import (
	"math"
	"testing"
	"time"

	"github.com/velvetradio/backstage/backstage/database/models"
)

func TestAggregator_AggregateEmpty(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())

	stats := a.Aggregate(nil, nil)
	if stats.TotalReleases != 0 {
		t.Errorf("TotalReleases = %d, want 0", stats.TotalReleases)
	}
	if stats.GenreConsistencyScore != 1.0 {
		t.Errorf("GenreConsistencyScore = %v, want 1.0", stats.GenreConsistencyScore)
	}
	if stats.BestPerformingRelease != nil {
		t.Errorf("BestPerformingRelease = %+v, want nil", stats.BestPerformingRelease)
	}
	if stats.ArtisticGrowthTrend != TrendInsufficientData {
		t.Errorf("trend = %q, want %q", stats.ArtisticGrowthTrend, TrendInsufficientData)
	}
	if len(stats.CareerHighlights) != 0 {
		t.Errorf("highlights = %v, want empty", stats.CareerHighlights)
	}
}

func TestAggregator_BestRelease(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := &models.Release{Title: "older", Streams: 500, GenreConsistency: 1.0, CreatedAt: base}
	newer := &models.Release{Title: "newer", Streams: 500, GenreConsistency: 0.5, CreatedAt: base.Add(time.Hour)}
	small := &models.Release{Title: "small", Streams: 100, GenreConsistency: 0.75, CreatedAt: base.Add(2 * time.Hour)}

	stats := a.Aggregate([]*models.Release{older, newer, small}, nil)

	// Stream tie breaks toward the more recent release.
	if stats.BestPerformingRelease != newer {
		t.Errorf("best = %q, want %q", stats.BestPerformingRelease.Title, "newer")
	}
	if math.Abs(stats.GenreConsistencyScore-0.75) > 1e-9 {
		t.Errorf("mean consistency = %v, want 0.75", stats.GenreConsistencyScore)
	}
}

func TestAggregator_GrowthTrend(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())

	evos := func(masteries ...float64) []*models.ArtistEvolution {
		out := make([]*models.ArtistEvolution, 0, len(masteries))
		for _, m := range masteries {
			out = append(out, &models.ArtistEvolution{GenreMastery: m})
		}
		return out
	}

	tests := []struct {
		name string
		in   []*models.ArtistEvolution
		want string
	}{
		{name: "single evolution", in: evos(1.0), want: TrendInsufficientData},
		{name: "rising mastery", in: evos(0.5, 0.6, 1.0, 1.2), want: TrendAscending},
		{name: "falling mastery", in: evos(1.2, 1.0, 0.6, 0.5), want: TrendDeclining},
		{name: "flat mastery", in: evos(1.0, 1.0, 1.05, 1.0), want: TrendStable},
		{name: "inside threshold", in: evos(1.0, 1.09), want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := a.Aggregate(nil, tt.in)
			if stats.ArtisticGrowthTrend != tt.want {
				t.Errorf("trend = %q, want %q", stats.ArtisticGrowthTrend, tt.want)
			}
		})
	}
}

func TestAggregator_Highlights(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())

	releases := []*models.Release{
		{PeakChartPosition: 1, FanReaction: string(ReactionPositive), Streams: 2_000_000},
		{PeakChartPosition: 8, FanReaction: string(ReactionPositive)},
		{PeakChartPosition: 0, FanReaction: string(ReactionPositive)},
		{PeakChartPosition: 50, FanReaction: string(ReactionNegative)},
	}

	stats := a.Aggregate(releases, nil)
	want := []string{"Top 10 Hit", "Chart Topper", "Fan Favorite", "Streaming Hit"}
	if len(stats.CareerHighlights) != len(want) {
		t.Fatalf("highlights = %v, want %v", stats.CareerHighlights, want)
	}
	for i, h := range want {
		if stats.CareerHighlights[i] != h {
			t.Errorf("highlight[%d] = %q, want %q", i, stats.CareerHighlights[i], h)
		}
	}
}

func TestAggregator_HighlightsBelowThresholds(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())

	releases := []*models.Release{
		{PeakChartPosition: 11, FanReaction: string(ReactionPositive)},
		{PeakChartPosition: 0, FanReaction: string(ReactionPositive), Streams: 999_999},
	}

	stats := a.Aggregate(releases, nil)
	if len(stats.CareerHighlights) != 0 {
		t.Errorf("highlights = %v, want none", stats.CareerHighlights)
	}
}

func TestAggregator_Deterministic(t *testing.T) {
	a := NewAggregator(NewDefaultConfig())
	releases := []*models.Release{
		{Streams: 10, GenreConsistency: 0.7, FanReaction: string(ReactionPositive)},
		{Streams: 20, GenreConsistency: 0.9, FanReaction: string(ReactionNeutral)},
	}
	evolutions := []*models.ArtistEvolution{
		{GenreMastery: 0.8},
		{GenreMastery: 1.1},
	}

	first := a.Aggregate(releases, evolutions)
	second := a.Aggregate(releases, evolutions)
	if first.GenreConsistencyScore != second.GenreConsistencyScore ||
		first.ArtisticGrowthTrend != second.ArtisticGrowthTrend ||
		first.BestPerformingRelease != second.BestPerformingRelease {
		t.Errorf("same inputs aggregated differently: %+v vs %+v", first, second)
	}
}
