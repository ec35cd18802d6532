package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Release is a scored release event. Immutable after scoring except for
// the accumulating Streams/Likes counters and the monotonically
// improving PeakChartPosition.
type Release struct {
	bun.BaseModel `bun:"table:releases,alias:r"`

	ID       snowflake.ID `bun:"id,pk"`
	ArtistID snowflake.ID `bun:"artist_id,notnull"`
	Title    string       `bun:"title,notnull"`
	Genre    string       `bun:"genre,notnull"`

	MusicQuality     float64 `bun:"music_quality,notnull"`
	GenreConsistency float64 `bun:"genre_consistency,notnull"`
	ReleaseImpact    int     `bun:"release_impact,notnull"`
	FanReaction      string  `bun:"fan_reaction,notnull"`

	Streams int64 `bun:"streams,notnull,default:0"`
	Likes   int64 `bun:"likes,notnull,default:0"`

	// 0 means never charted. Only ever updated to a better (lower) value.
	PeakChartPosition int `bun:"peak_chart_position,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
