package services

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/mock"
	"github.com/velvetradio/backstage/backstage/database/models"
	"github.com/velvetradio/backstage/backstage/events"
)

type mockProgressionRepo struct {
	mock.Mock
}

func (m *mockProgressionRepo) Create(ctx context.Context, p *models.UserProgression) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProgressionRepo) GetByUserID(ctx context.Context, userID string) (*models.UserProgression, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*models.UserProgression), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProgressionRepo) Save(ctx context.Context, p *models.UserProgression, expectedVersion int64) error {
	args := m.Called(ctx, p, expectedVersion)
	return args.Error(0)
}

type mockArtistRepo struct {
	mock.Mock
}

func (m *mockArtistRepo) Create(ctx context.Context, artist *models.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func (m *mockArtistRepo) GetByID(ctx context.Context, id snowflake.ID) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistRepo) GetByUserID(ctx context.Context, userID string) ([]*models.Artist, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistRepo) GetAll(ctx context.Context) ([]*models.Artist, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistRepo) GetDueForGrowth(ctx context.Context, dayStart time.Time) ([]*models.Artist, error) {
	args := m.Called(ctx, dayStart)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArtistRepo) Save(ctx context.Context, artist *models.Artist, expectedVersion int64) error {
	args := m.Called(ctx, artist, expectedVersion)
	return args.Error(0)
}

func (m *mockArtistRepo) UpdateChartPositions(ctx context.Context, positions map[snowflake.ID]int) error {
	args := m.Called(ctx, positions)
	return args.Error(0)
}

type mockReleaseRepo struct {
	mock.Mock
}

func (m *mockReleaseRepo) Create(ctx context.Context, release *models.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *mockReleaseRepo) GetByID(ctx context.Context, id snowflake.ID) (*models.Release, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReleaseRepo) GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.Release, error) {
	args := m.Called(ctx, artistID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReleaseRepo) GetLatestByArtistID(ctx context.Context, artistID snowflake.ID) (*models.Release, error) {
	args := m.Called(ctx, artistID)
	if r := args.Get(0); r != nil {
		return r.(*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReleaseRepo) AddStreams(ctx context.Context, id snowflake.ID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockReleaseRepo) AddLikes(ctx context.Context, id snowflake.ID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockReleaseRepo) ImprovePeakPosition(ctx context.Context, id snowflake.ID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}

type mockEvolutionRepo struct {
	mock.Mock
}

func (m *mockEvolutionRepo) Create(ctx context.Context, evolution *models.ArtistEvolution) error {
	args := m.Called(ctx, evolution)
	return args.Error(0)
}

func (m *mockEvolutionRepo) GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.ArtistEvolution, error) {
	args := m.Called(ctx, artistID)
	if e := args.Get(0); e != nil {
		return e.([]*models.ArtistEvolution), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Emit(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
