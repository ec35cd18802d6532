package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// ArtistEvolution is the append-only history record written once per
// release. Deltas are applied at creation time and immutable afterward.
type ArtistEvolution struct {
	bun.BaseModel `bun:"table:artist_evolutions,alias:ae"`

	ID        int64        `bun:"id,pk,autoincrement"`
	ArtistID  snowflake.ID `bun:"artist_id,notnull"`
	ReleaseID snowflake.ID `bun:"release_id,notnull,unique"`

	// GenreMastery is clamped to [0, 2]. 0.5 = poor fit, 1.0 = consistent,
	// above 1.3 = mastery.
	GenreMastery float64 `bun:"genre_mastery,notnull"`

	FameChangeFromRelease    int `bun:"fame_change_from_release,notnull"`
	FanbaseChangeFromRelease int `bun:"fanbase_change_from_release,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
