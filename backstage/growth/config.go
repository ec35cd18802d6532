package growth

// Config holds the daily growth tunables.
type Config struct {
	// Base growth is max(MinBaseGrowth, round((MaxFame-fame)/FameDivisor)):
	// a decreasing function of fame with diminishing returns near the cap.
	FameDivisor   float64
	MinBaseGrowth int
	MaxFame       int

	// Streak multiplier is 1 + min(streak, StreakCap)*StreakStep.
	StreakCap  int
	StreakStep float64

	// Daily streams are recomputed from the new fame value.
	StreamsPerFamePoint int64
}

func NewDefaultConfig() Config {
	return Config{
		FameDivisor:         20,
		MinBaseGrowth:       1,
		MaxFame:             100,
		StreakCap:           30,
		StreakStep:          0.02,
		StreamsPerFamePoint: 250,
	}
}
