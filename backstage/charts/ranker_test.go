package charts

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/velvetradio/backstage/backstage/database/models"
)

func artist(id snowflake.ID, fame int, streams int64, created time.Time) *models.Artist {
	return &models.Artist{ID: id, CurrentFame: fame, TotalStreams: streams, CreatedAt: created}
}

func TestRanker_Rank(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRanker(NewDefaultConfig())

	t.Run("fame then streams", func(t *testing.T) {
		artists := []*models.Artist{
			artist(1, 80, 100, base),
			artist(2, 80, 200, base.Add(time.Hour)),
			artist(3, 60, 50, base),
		}

		positions := r.Rank(artists)
		if positions[2] != 1 || positions[1] != 2 || positions[3] != 3 {
			t.Errorf("positions = %v, want 2:1 1:2 3:3", positions)
		}
	})

	t.Run("full tie breaks on creation time", func(t *testing.T) {
		artists := []*models.Artist{
			artist(10, 70, 500, base.Add(time.Hour)),
			artist(11, 70, 500, base),
		}

		positions := r.Rank(artists)
		if positions[11] != 1 || positions[10] != 2 {
			t.Errorf("positions = %v, want earlier artist first", positions)
		}
	})

	t.Run("deterministic across invocations", func(t *testing.T) {
		artists := []*models.Artist{
			artist(1, 80, 100, base),
			artist(2, 80, 100, base),
			artist(3, 80, 100, base),
		}

		first := r.Rank(artists)
		for i := 0; i < 5; i++ {
			again := r.Rank(artists)
			for id, pos := range first {
				if again[id] != pos {
					t.Fatalf("run %d: position of %d changed from %d to %d", i, id, pos, again[id])
				}
			}
		}
	})

	t.Run("input order does not matter", func(t *testing.T) {
		a := []*models.Artist{
			artist(1, 90, 0, base),
			artist(2, 50, 0, base),
			artist(3, 70, 0, base),
		}
		b := []*models.Artist{a[2], a[0], a[1]}

		pa := r.Rank(a)
		pb := r.Rank(b)
		for id, pos := range pa {
			if pb[id] != pos {
				t.Errorf("position of %d differs by input order: %d vs %d", id, pos, pb[id])
			}
		}
	})
}

func TestRanker_Cutoff(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRanker(Config{Cutoff: 2})

	artists := []*models.Artist{
		artist(1, 90, 0, base),
		artist(2, 80, 0, base),
		artist(3, 70, 0, base),
		artist(4, 60, 0, base),
	}

	positions := r.Rank(artists)
	if positions[1] != 1 || positions[2] != 2 {
		t.Errorf("top positions = %v", positions)
	}
	if positions[3] != 0 || positions[4] != 0 {
		t.Errorf("beyond-cutoff positions = %v, want 0", positions)
	}
}
