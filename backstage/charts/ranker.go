package charts

import (
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"github.com/velvetradio/backstage/backstage/database/models"
)

// Config holds the chart tunables.
type Config struct {
	// Artists ranked beyond Cutoff are unranked (position 0) rather than
	// carrying a large rank number.
	Cutoff int
}

func NewDefaultConfig() Config {
	return Config{Cutoff: 100}
}

// Ranker orders the whole artist population by a fame-derived score.
// Rank is a relative, global property, so every invocation is a full
// recomputation over the population snapshot it is given.
type Ranker struct {
	cfg Config
}

func NewRanker(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank assigns 1-based chart positions: fame descending, total streams
// descending, then creation time ascending so earlier artists win ties.
// Positions beyond the cutoff map to 0.
func (r *Ranker) Rank(artists []*models.Artist) map[snowflake.ID]int {
	ordered := make([]*models.Artist, len(artists))
	copy(ordered, artists)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.CurrentFame != b.CurrentFame {
			return a.CurrentFame > b.CurrentFame
		}
		if a.TotalStreams != b.TotalStreams {
			return a.TotalStreams > b.TotalStreams
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	positions := make(map[snowflake.ID]int, len(ordered))
	for i, artist := range ordered {
		pos := i + 1
		if pos > r.cfg.Cutoff {
			pos = 0
		}
		positions[artist.ID] = pos
	}
	return positions
}
