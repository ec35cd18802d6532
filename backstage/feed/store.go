package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/velvetradio/backstage/backstage/events"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "feed"

type Config struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Store appends engine events to the Mongo activity feed. It implements
// events.Sink; the engine hands events over and the feed owns delivery
// to users.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collectionName),
	}, nil
}

// Emit appends one event to the feed.
func (s *Store) Emit(ctx context.Context, event events.Event) error {
	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to append feed event: %w", err)
	}
	return nil
}

// Recent returns the newest feed entries for a user, most recent first.
func (s *Store) Recent(ctx context.Context, userID string, limit int64) ([]events.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer cursor.Close(ctx)

	var out []events.Event
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode feed events: %w", err)
	}
	return out, nil
}

func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
