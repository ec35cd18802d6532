package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/velvetradio/backstage/backstage/database/models"
)

type ReleaseRepository interface {
	Create(ctx context.Context, release *models.Release) error
	GetByID(ctx context.Context, id snowflake.ID) (*models.Release, error)
	// GetByArtistID returns releases in chronological order.
	GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.Release, error)
	GetLatestByArtistID(ctx context.Context, artistID snowflake.ID) (*models.Release, error)
	// AddStreams and AddLikes are the only mutations allowed on a scored
	// release besides the chart peak. The engine never generates stream
	// or like traffic itself; these are the ingestion entry points for
	// the playback/web layer, which lives outside this repository.
	AddStreams(ctx context.Context, id snowflake.ID, delta int64) error
	AddLikes(ctx context.Context, id snowflake.ID, delta int64) error
	// ImprovePeakPosition records a new chart peak only when it is better
	// (numerically lower) than the stored one, or when never charted.
	ImprovePeakPosition(ctx context.Context, id snowflake.ID, position int) error
}

type releaseRepository struct {
	db *bun.DB
}

func NewReleaseRepository(db *bun.DB) ReleaseRepository {
	return &releaseRepository{db: db}
}

func (r *releaseRepository) Create(ctx context.Context, release *models.Release) error {
	release.CreatedAt = time.Now().UTC()
	release.UpdatedAt = release.CreatedAt
	if _, err := r.db.NewInsert().Model(release).Exec(ctx); err != nil {
		return &RepositoryError{Operation: "create", Entity: "release", Err: err}
	}
	return nil
}

func (r *releaseRepository) GetByID(ctx context.Context, id snowflake.ID) (*models.Release, error) {
	release := new(models.Release)
	err := r.db.NewSelect().
		Model(release).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "release", ID: id}
		}
		return nil, &RepositoryError{Operation: "get", Entity: "release", Err: err}
	}
	return release, nil
}

func (r *releaseRepository) GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.Release, error) {
	var releases []*models.Release
	err := r.db.NewSelect().
		Model(&releases).
		Where("artist_id = ?", artistID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "list", Entity: "release", Err: err}
	}
	return releases, nil
}

func (r *releaseRepository) GetLatestByArtistID(ctx context.Context, artistID snowflake.ID) (*models.Release, error) {
	release := new(models.Release)
	err := r.db.NewSelect().
		Model(release).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "release", ID: artistID}
		}
		return nil, &RepositoryError{Operation: "get_latest", Entity: "release", Err: err}
	}
	return release, nil
}

func (r *releaseRepository) AddStreams(ctx context.Context, id snowflake.ID, delta int64) error {
	if delta < 0 {
		return &RepositoryError{Operation: "add_streams", Entity: "release",
			Err: errors.New("stream counters only accumulate")}
	}
	_, err := r.db.NewUpdate().
		Model((*models.Release)(nil)).
		Set("streams = streams + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "add_streams", Entity: "release", Err: err}
	}
	return nil
}

func (r *releaseRepository) AddLikes(ctx context.Context, id snowflake.ID, delta int64) error {
	if delta < 0 {
		return &RepositoryError{Operation: "add_likes", Entity: "release",
			Err: errors.New("like counters only accumulate")}
	}
	_, err := r.db.NewUpdate().
		Model((*models.Release)(nil)).
		Set("likes = likes + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "add_likes", Entity: "release", Err: err}
	}
	return nil
}

func (r *releaseRepository) ImprovePeakPosition(ctx context.Context, id snowflake.ID, position int) error {
	if position < 1 {
		return nil
	}
	_, err := r.db.NewUpdate().
		Model((*models.Release)(nil)).
		Set("peak_chart_position = ?", position).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("peak_chart_position = 0 OR peak_chart_position > ?", position).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "improve_peak", Entity: "release", Err: err}
	}
	return nil
}
