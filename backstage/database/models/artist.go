package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Artist is a generated virtual artist identity owned by a user.
type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID     snowflake.ID `bun:"id,pk"`
	UserID string       `bun:"user_id,notnull"`
	Name   string       `bun:"name,notnull"`

	// Genre is a fixed identity attribute set at generation time.
	Genre string `bun:"genre,notnull"`

	CurrentFame int   `bun:"current_fame,notnull,default:0"`
	Fanbase     int64 `bun:"fanbase,notnull,default:0"`

	// Daily growth state. LastDailyUpdate is normalized to UTC midnight.
	DailyGrowthStreak int       `bun:"daily_growth_streak,notnull,default:0"`
	LastDailyUpdate   time.Time `bun:"last_daily_update"`

	TotalStreams int64 `bun:"total_streams,notnull,default:0"`
	DailyStreams int64 `bun:"daily_streams,notnull,default:0"`

	// ChartPosition is derived by the chart ranker, 0 means unranked.
	ChartPosition int `bun:"chart_position,notnull,default:0"`

	Version int64 `bun:"version,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
