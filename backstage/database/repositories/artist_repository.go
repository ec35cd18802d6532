package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/velvetradio/backstage/backstage/database/models"
)

type ArtistRepository interface {
	Create(ctx context.Context, artist *models.Artist) error
	GetByID(ctx context.Context, id snowflake.ID) (*models.Artist, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Artist, error)
	// GetAll returns the full population snapshot used by the chart
	// ranker, ordered by creation time for stable iteration.
	GetAll(ctx context.Context) ([]*models.Artist, error)
	// GetDueForGrowth returns artists whose last daily update is before
	// the given day boundary.
	GetDueForGrowth(ctx context.Context, dayStart time.Time) ([]*models.Artist, error)
	Save(ctx context.Context, artist *models.Artist, expectedVersion int64) error
	// UpdateChartPositions writes derived positions without touching the
	// entity version; position is owned by the ranker alone.
	UpdateChartPositions(ctx context.Context, positions map[snowflake.ID]int) error
}

type artistRepository struct {
	db *bun.DB
}

func NewArtistRepository(db *bun.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) Create(ctx context.Context, artist *models.Artist) error {
	artist.CreatedAt = time.Now().UTC()
	artist.UpdatedAt = artist.CreatedAt
	if _, err := r.db.NewInsert().Model(artist).Exec(ctx); err != nil {
		return &RepositoryError{Operation: "create", Entity: "artist", Err: err}
	}
	return nil
}

func (r *artistRepository) GetByID(ctx context.Context, id snowflake.ID) (*models.Artist, error) {
	artist := new(models.Artist)
	err := r.db.NewSelect().
		Model(artist).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "artist", ID: id}
		}
		return nil, &RepositoryError{Operation: "get", Entity: "artist", Err: err}
	}
	return artist, nil
}

func (r *artistRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := r.db.NewSelect().
		Model(&artists).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "list", Entity: "artist", Err: err}
	}
	return artists, nil
}

func (r *artistRepository) GetAll(ctx context.Context) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := r.db.NewSelect().
		Model(&artists).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		slog.Error("Database error when getting all artists",
			slog.String("type", "db"),
			slog.String("operation", "GetAll"),
			slog.String("error", err.Error()))
		return nil, &RepositoryError{Operation: "list", Entity: "artist", Err: err}
	}
	return artists, nil
}

func (r *artistRepository) GetDueForGrowth(ctx context.Context, dayStart time.Time) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := r.db.NewSelect().
		Model(&artists).
		Where("last_daily_update IS NULL OR last_daily_update < ?", dayStart).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "list_due", Entity: "artist", Err: err}
	}
	return artists, nil
}

func (r *artistRepository) Save(ctx context.Context, artist *models.Artist, expectedVersion int64) error {
	artist.Version = expectedVersion + 1
	artist.UpdatedAt = time.Now().UTC()

	res, err := r.db.NewUpdate().
		Model(artist).
		WherePK().
		Where("version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "save", Entity: "artist", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &RepositoryError{Operation: "save", Entity: "artist", Err: err}
	}
	if affected == 0 {
		artist.Version = expectedVersion
		return &VersionConflictError{Entity: "artist", ID: artist.ID, ExpectedVersion: expectedVersion}
	}
	return nil
}

func (r *artistRepository) UpdateChartPositions(ctx context.Context, positions map[snowflake.ID]int) error {
	for id, pos := range positions {
		_, err := r.db.NewUpdate().
			Model((*models.Artist)(nil)).
			Set("chart_position = ?", pos).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return &RepositoryError{Operation: "update_chart_positions", Entity: "artist", Err: err}
		}
	}
	return nil
}
