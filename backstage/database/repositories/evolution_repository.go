package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/velvetradio/backstage/backstage/database/models"
)

// EvolutionRepository is append-only: evolution records are written once
// per release and never updated.
type EvolutionRepository interface {
	Create(ctx context.Context, evolution *models.ArtistEvolution) error
	GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.ArtistEvolution, error)
}

type evolutionRepository struct {
	db *bun.DB
}

func NewEvolutionRepository(db *bun.DB) EvolutionRepository {
	return &evolutionRepository{db: db}
}

func (r *evolutionRepository) Create(ctx context.Context, evolution *models.ArtistEvolution) error {
	evolution.CreatedAt = time.Now().UTC()
	if _, err := r.db.NewInsert().Model(evolution).Exec(ctx); err != nil {
		return &RepositoryError{Operation: "create", Entity: "artist_evolution", Err: err}
	}
	return nil
}

func (r *evolutionRepository) GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.ArtistEvolution, error) {
	var evolutions []*models.ArtistEvolution
	err := r.db.NewSelect().
		Model(&evolutions).
		Where("artist_id = ?", artistID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, &RepositoryError{Operation: "list", Entity: "artist_evolution", Err: err}
	}
	return evolutions, nil
}
