package progression

import (
	"errors"
	"time"

	"github.com/velvetradio/backstage/backstage/database/models"
)

// ErrInvalidDelta is returned for negative experience or influence deltas.
var ErrInvalidDelta = errors.New("progression: delta must be non-negative")

// Result describes the outcome of an experience or influence award.
type Result struct {
	OldLevel   Level
	NewLevel   Level
	LeveledUp  bool
	Experience int64
	Influence  int64
}

// Tracker converts raw experience points into discrete levels. It
// mutates only the passed progression record; persistence is the
// caller's concern.
type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

// AddExperience applies a non-negative experience delta and reports
// whether the derived level rose.
func (t *Tracker) AddExperience(p *models.UserProgression, delta int64) (*Result, error) {
	if delta < 0 {
		return nil, ErrInvalidDelta
	}

	oldLevel := LevelFor(p.Experience)
	p.Experience += delta
	p.UpdatedAt = time.Now().UTC()
	newLevel := LevelFor(p.Experience)

	return &Result{
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		LeveledUp:  newLevel > oldLevel,
		Experience: p.Experience,
		Influence:  p.Influence,
	}, nil
}

// AddInfluence applies a non-negative influence delta. Influence never
// affects level but is monotonically non-decreasing like experience.
func (t *Tracker) AddInfluence(p *models.UserProgression, delta int64) (*Result, error) {
	if delta < 0 {
		return nil, ErrInvalidDelta
	}

	p.Influence += delta
	p.UpdatedAt = time.Now().UTC()
	level := LevelFor(p.Experience)

	return &Result{
		OldLevel:   level,
		NewLevel:   level,
		Experience: p.Experience,
		Influence:  p.Influence,
	}, nil
}
