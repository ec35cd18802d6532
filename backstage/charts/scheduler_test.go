package charts

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/velvetradio/backstage/backstage/database/models"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/events"
)

type schedArtistRepo struct {
	mock.Mock
}

func (m *schedArtistRepo) Create(ctx context.Context, artist *models.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func (m *schedArtistRepo) GetByID(ctx context.Context, id snowflake.ID) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedArtistRepo) GetByUserID(ctx context.Context, userID string) ([]*models.Artist, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedArtistRepo) GetAll(ctx context.Context) ([]*models.Artist, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedArtistRepo) GetDueForGrowth(ctx context.Context, dayStart time.Time) ([]*models.Artist, error) {
	args := m.Called(ctx, dayStart)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedArtistRepo) Save(ctx context.Context, artist *models.Artist, expectedVersion int64) error {
	args := m.Called(ctx, artist, expectedVersion)
	return args.Error(0)
}

func (m *schedArtistRepo) UpdateChartPositions(ctx context.Context, positions map[snowflake.ID]int) error {
	args := m.Called(ctx, positions)
	return args.Error(0)
}

type schedReleaseRepo struct {
	mock.Mock
}

func (m *schedReleaseRepo) Create(ctx context.Context, release *models.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *schedReleaseRepo) GetByID(ctx context.Context, id snowflake.ID) (*models.Release, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedReleaseRepo) GetByArtistID(ctx context.Context, artistID snowflake.ID) ([]*models.Release, error) {
	args := m.Called(ctx, artistID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedReleaseRepo) GetLatestByArtistID(ctx context.Context, artistID snowflake.ID) (*models.Release, error) {
	args := m.Called(ctx, artistID)
	if r := args.Get(0); r != nil {
		return r.(*models.Release), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *schedReleaseRepo) AddStreams(ctx context.Context, id snowflake.ID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *schedReleaseRepo) AddLikes(ctx context.Context, id snowflake.ID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *schedReleaseRepo) ImprovePeakPosition(ctx context.Context, id snowflake.ID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}

type schedSink struct {
	mock.Mock
}

func (m *schedSink) Emit(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type stubPublisher struct {
	published int
}

func (s *stubPublisher) Publish(context.Context, []*models.Artist, map[snowflake.ID]int) error {
	s.published++
	return nil
}

func newSchedulerFixture() (*Scheduler, *schedArtistRepo, *schedReleaseRepo, *schedSink, *stubPublisher) {
	artists := new(schedArtistRepo)
	releases := new(schedReleaseRepo)
	sink := new(schedSink)
	store := &stubPublisher{}
	s := NewScheduler(NewRanker(NewDefaultConfig()), artists, releases, store, sink, time.Hour)
	return s, artists, releases, sink, store
}

func chartedArtist(id snowflake.ID, fame int, position int) *models.Artist {
	return &models.Artist{
		ID:            id,
		UserID:        "u" + id.String(),
		CurrentFame:   fame,
		ChartPosition: position,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScheduler_RecomputeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("first chart entry emits and records peak", func(t *testing.T) {
		s, artists, releases, sink, store := newSchedulerFixture()

		newcomer := chartedArtist(1, 80, 0)
		artists.On("GetAll", ctx).Return([]*models.Artist{newcomer}, nil)
		artists.On("UpdateChartPositions", mock.Anything, map[snowflake.ID]int{1: 1}).Return(nil)
		releases.On("GetLatestByArtistID", ctx, snowflake.ID(1)).
			Return(&models.Release{ID: 100}, nil)
		releases.On("ImprovePeakPosition", ctx, snowflake.ID(100), 1).Return(nil)
		sink.On("Emit", ctx, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.TypeChartEntry &&
				e.ArtistID == snowflake.ID(1) &&
				e.Fields["position"] == 1
		})).Return(nil)

		require.NoError(t, s.RecomputeAll(ctx))
		assert.Equal(t, 1, store.published)
		artists.AssertExpectations(t)
		releases.AssertExpectations(t)
		sink.AssertExpectations(t)
	})

	t.Run("worsened position emits no event", func(t *testing.T) {
		s, artists, releases, sink, _ := newSchedulerFixture()

		// Former number one gets overtaken; only the newcomer is announced.
		overtaken := chartedArtist(1, 50, 1)
		newcomer := chartedArtist(2, 90, 0)
		artists.On("GetAll", ctx).Return([]*models.Artist{overtaken, newcomer}, nil)
		artists.On("UpdateChartPositions", mock.Anything, mock.Anything).Return(nil)
		releases.On("GetLatestByArtistID", ctx, snowflake.ID(1)).
			Return(&models.Release{ID: 101}, nil)
		releases.On("GetLatestByArtistID", ctx, snowflake.ID(2)).
			Return(&models.Release{ID: 102}, nil)
		// Peaks are still recorded for every ranked artist.
		releases.On("ImprovePeakPosition", ctx, snowflake.ID(101), 2).Return(nil)
		releases.On("ImprovePeakPosition", ctx, snowflake.ID(102), 1).Return(nil)
		sink.On("Emit", ctx, mock.MatchedBy(func(e events.Event) bool {
			return e.ArtistID == snowflake.ID(2)
		})).Return(nil)

		require.NoError(t, s.RecomputeAll(ctx))
		releases.AssertExpectations(t)
		sink.AssertNumberOfCalls(t, "Emit", 1)
	})

	t.Run("no releases yet skips peak recording", func(t *testing.T) {
		s, artists, releases, sink, _ := newSchedulerFixture()

		artists.On("GetAll", ctx).Return([]*models.Artist{chartedArtist(1, 80, 0)}, nil)
		artists.On("UpdateChartPositions", mock.Anything, mock.Anything).Return(nil)
		releases.On("GetLatestByArtistID", ctx, snowflake.ID(1)).
			Return(nil, &repositories.NotFoundError{Entity: "release", ID: snowflake.ID(1)})
		sink.On("Emit", ctx, mock.Anything).Return(nil)

		require.NoError(t, s.RecomputeAll(ctx))
		releases.AssertNotCalled(t, "ImprovePeakPosition", mock.Anything, mock.Anything, mock.Anything)
		sink.AssertNumberOfCalls(t, "Emit", 1)
	})

	t.Run("release lookup failure does not stop the pass", func(t *testing.T) {
		s, artists, releases, sink, store := newSchedulerFixture()

		artists.On("GetAll", ctx).Return([]*models.Artist{chartedArtist(1, 80, 0)}, nil)
		artists.On("UpdateChartPositions", mock.Anything, mock.Anything).Return(nil)
		releases.On("GetLatestByArtistID", ctx, snowflake.ID(1)).
			Return(nil, &repositories.RepositoryError{Operation: "get_latest", Entity: "release"})
		sink.On("Emit", ctx, mock.Anything).Return(nil)

		require.NoError(t, s.RecomputeAll(ctx))
		releases.AssertNotCalled(t, "ImprovePeakPosition", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 1, store.published)
	})

	t.Run("overlapping run is skipped", func(t *testing.T) {
		s, artists, _, _, store := newSchedulerFixture()

		s.isRanking.Store(true)
		require.NoError(t, s.RecomputeAll(ctx))
		artists.AssertNotCalled(t, "GetAll", mock.Anything)
		assert.Equal(t, 0, store.published)
	})
}
