package events

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Type identifies an externally visible engine state change.
type Type string

const (
	TypeLevelUp        Type = "level_up"
	TypeCreditsGranted Type = "credits_granted"
	TypeRenewal        Type = "renewal"
	TypeReleaseScored  Type = "release_scored"
	TypeDailyGrowth    Type = "daily_growth"
	TypeChartEntry     Type = "chart_entry"
)

// Event is the typed record emitted by engine operations for the caller
// to persist and surface. The engine never delivers notifications itself.
type Event struct {
	ID       snowflake.ID   `json:"id" bson:"_id"`
	Type     Type           `json:"type" bson:"type"`
	UserID   string         `json:"user_id,omitempty" bson:"user_id,omitempty"`
	ArtistID snowflake.ID   `json:"artist_id,omitempty" bson:"artist_id,omitempty"`
	Message  string         `json:"message" bson:"message"`
	Fields   map[string]any `json:"fields,omitempty" bson:"fields,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Sink receives engine events. Delivery failures must never fail the
// operation that produced the event.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// New builds an event stamped with a fresh snowflake ID.
func New(t Type, message string) Event {
	now := time.Now().UTC()
	return Event{
		ID:        snowflake.New(now),
		Type:      t,
		Message:   message,
		Fields:    map[string]any{},
		CreatedAt: now,
	}
}

// WithUser attaches the owning user.
func (e Event) WithUser(userID string) Event {
	e.UserID = userID
	return e
}

// WithArtist attaches the artist entity.
func (e Event) WithArtist(artistID snowflake.ID) Event {
	e.ArtistID = artistID
	return e
}

// WithField attaches one payload field.
func (e Event) WithField(key string, value any) Event {
	e.Fields[key] = value
	return e
}

// MultiSink fans an event out to several sinks, logging failures at the
// caller's discretion by returning the first error.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, event Event) error {
	var first error
	for _, s := range m {
		if err := s.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
