package growth

import (
	"errors"
	"math"
	"time"

	"github.com/velvetradio/backstage/backstage/database/models"
)

// ErrAlreadyAppliedToday is returned when growth was already applied
// for the current calendar day. Callers may invoke the engine
// unconditionally once per day without double-crediting.
var ErrAlreadyAppliedToday = errors.New("growth: already applied today")

// Result describes one applied growth tick.
type Result struct {
	FameDelta    int
	NewFame      int
	Streak       int
	StreakBroken bool
	DailyStreams int64
	TotalStreams int64
}

// Engine applies one tick of simulated growth to an artist entity,
// idempotent per UTC calendar day.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// DayOf normalizes a timestamp to its UTC calendar day. All day
// comparisons in the engine go through this single boundary definition.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyDailyGrowth advances fame, streams and streak for one calendar
// day. A gap of more than one day breaks the streak before the delta is
// computed; missed days are never applied retroactively.
func (e *Engine) ApplyDailyGrowth(artist *models.Artist, now time.Time) (*Result, error) {
	today := DayOf(now)

	if !artist.LastDailyUpdate.IsZero() && !DayOf(artist.LastDailyUpdate).Before(today) {
		return nil, ErrAlreadyAppliedToday
	}

	streak := artist.DailyGrowthStreak
	broken := false
	if !artist.LastDailyUpdate.IsZero() && today.Sub(DayOf(artist.LastDailyUpdate)) > 24*time.Hour {
		streak = 0
		broken = true
	}

	fameDelta := int(math.Round(float64(e.baseGrowth(artist.CurrentFame)) * e.streakMultiplier(streak)))
	newFame := clampInt(artist.CurrentFame+fameDelta, 0, e.cfg.MaxFame)
	effectiveDelta := newFame - artist.CurrentFame

	dailyStreams := int64(newFame) * e.cfg.StreamsPerFamePoint

	artist.CurrentFame = newFame
	artist.DailyGrowthStreak = streak + 1
	artist.LastDailyUpdate = today
	artist.DailyStreams = dailyStreams
	artist.TotalStreams += dailyStreams
	artist.UpdatedAt = now.UTC()

	return &Result{
		FameDelta:    effectiveDelta,
		NewFame:      newFame,
		Streak:       artist.DailyGrowthStreak,
		StreakBroken: broken,
		DailyStreams: dailyStreams,
		TotalStreams: artist.TotalStreams,
	}, nil
}

// baseGrowth yields smaller gains as fame approaches the cap.
func (e *Engine) baseGrowth(fame int) int {
	raw := int(math.Round(float64(e.cfg.MaxFame-fame) / e.cfg.FameDivisor))
	if raw < e.cfg.MinBaseGrowth {
		return e.cfg.MinBaseGrowth
	}
	return raw
}

// streakMultiplier caps the streak bonus once the streak passes StreakCap.
func (e *Engine) streakMultiplier(streak int) float64 {
	if streak > e.cfg.StreakCap {
		streak = e.cfg.StreakCap
	}
	return 1 + float64(streak)*e.cfg.StreakStep
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
