package progression

// Level is the discrete progression tier of a user, derived from
// cumulative experience. It is never stored or set directly.
type Level int

const (
	LevelFan Level = iota
	LevelArtist
	LevelProducer
	LevelARAndR
	LevelLabelExecutive
)

// mogulThreshold marks the open-ended display-only top tier. It unlocks
// nothing beyond LevelLabelExecutive.
const mogulThreshold = 10000

// levelThresholds are half-open intervals [Min, Max). A value exactly at
// a boundary belongs to the higher level.
var levelThresholds = []struct {
	Level Level
	Min   int64
	Max   int64
}{
	{LevelFan, 0, 100},
	{LevelArtist, 100, 500},
	{LevelProducer, 500, 2000},
	{LevelARAndR, 2000, 5000},
	{LevelLabelExecutive, 5000, mogulThreshold},
}

func (l Level) String() string {
	switch l {
	case LevelFan:
		return "Fan"
	case LevelArtist:
		return "Artist"
	case LevelProducer:
		return "Producer"
	case LevelARAndR:
		return "A&R"
	case LevelLabelExecutive:
		return "Label Executive"
	}
	return "Unknown"
}

// LevelFor maps cumulative experience to a level. Negative input clamps
// to zero at the boundary.
func LevelFor(experience int64) Level {
	if experience < 0 {
		experience = 0
	}
	for _, t := range levelThresholds {
		if experience >= t.Min && experience < t.Max {
			return t.Level
		}
	}
	return LevelLabelExecutive
}

// DisplayTitle is the user-facing title, including the cosmetic top
// tier above the last capability-bearing level.
func DisplayTitle(experience int64) string {
	if experience >= mogulThreshold {
		return "Music Mogul"
	}
	return LevelFor(experience).String()
}

// ProgressFraction reports how far into the current level the given
// experience sits, in [0, 1]. The unbounded top tier always reports 1.
func ProgressFraction(experience int64) float64 {
	if experience < 0 {
		experience = 0
	}
	if experience >= mogulThreshold {
		return 1.0
	}
	for _, t := range levelThresholds {
		if experience >= t.Min && experience < t.Max {
			return float64(experience-t.Min) / float64(t.Max-t.Min)
		}
	}
	return 1.0
}
