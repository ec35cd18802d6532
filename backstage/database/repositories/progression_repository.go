package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/velvetradio/backstage/backstage/database/models"
)

type ProgressionRepository interface {
	Create(ctx context.Context, p *models.UserProgression) error
	GetByUserID(ctx context.Context, userID string) (*models.UserProgression, error)
	// Save persists the record only if the stored version still matches
	// expectedVersion, bumping the version on success.
	Save(ctx context.Context, p *models.UserProgression, expectedVersion int64) error
}

type progressionRepository struct {
	db *bun.DB
}

func NewProgressionRepository(db *bun.DB) ProgressionRepository {
	return &progressionRepository{db: db}
}

func (r *progressionRepository) Create(ctx context.Context, p *models.UserProgression) error {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if _, err := r.db.NewInsert().Model(p).Exec(ctx); err != nil {
		return &RepositoryError{Operation: "create", Entity: "user_progression", Err: err}
	}
	return nil
}

func (r *progressionRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProgression, error) {
	p := new(models.UserProgression)
	err := r.db.NewSelect().
		Model(p).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user_progression", ID: userID}
		}
		slog.Error("Database error when getting progression",
			slog.String("type", "db"),
			slog.String("operation", "GetByUserID"),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, &RepositoryError{Operation: "get", Entity: "user_progression", Err: err}
	}
	return p, nil
}

func (r *progressionRepository) Save(ctx context.Context, p *models.UserProgression, expectedVersion int64) error {
	p.Version = expectedVersion + 1
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.NewUpdate().
		Model(p).
		WherePK().
		Where("version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		return &RepositoryError{Operation: "save", Entity: "user_progression", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &RepositoryError{Operation: "save", Entity: "user_progression", Err: err}
	}
	if affected == 0 {
		p.Version = expectedVersion
		return &VersionConflictError{Entity: "user_progression", ID: p.UserID, ExpectedVersion: expectedVersion}
	}
	return nil
}
