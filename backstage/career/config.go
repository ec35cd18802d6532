package career

// Config holds the career engine tunables. The consistency and mastery
// cutoffs are hand-tuned values carried over from the original balance
// sheet, exposed here rather than hardcoded.
type Config struct {
	// Fan reaction thresholds on music quality.
	PositiveReactionThreshold float64
	NegativeReactionThreshold float64

	// Genre consistency for genres absent from the family table.
	UnknownGenreConsistency float64

	// Similarity for genres sharing a family, and for known genres from
	// unrelated families. Both sit inside [0.3, 0.9].
	FamilyConsistency      float64
	CrossFamilyConsistency float64

	// Runs of exact-genre releases of at least this length push
	// consistency above 1.0 by the run bonus.
	MasteryRunLength int
	MasteryRunBonus  float64

	// Mastery evolution: new = prev + gain*(consistency - prev), clamped
	// to [0, MasteryCeiling]. Display cutoffs: PoorFitMastery and
	// MasteryThreshold.
	InitialMastery   float64
	MasteryGainRate  float64
	MasteryCeiling   float64
	PoorFitMastery   float64
	MasteryThreshold float64

	// Growth trend threshold between half-means of mastery history.
	TrendThreshold float64

	// Highlight rules.
	TopTenCutoff        int
	FanFavoriteCount    int
	StreamingHitStreams int64
}

func NewDefaultConfig() Config {
	return Config{
		PositiveReactionThreshold: 0.7,
		NegativeReactionThreshold: 0.4,
		UnknownGenreConsistency:   0.5,
		FamilyConsistency:         0.7,
		CrossFamilyConsistency:    0.35,
		MasteryRunLength:          3,
		MasteryRunBonus:           1.15,
		InitialMastery:            1.0,
		MasteryGainRate:           0.25,
		MasteryCeiling:            2.0,
		PoorFitMastery:            0.5,
		MasteryThreshold:          1.3,
		TrendThreshold:            0.1,
		TopTenCutoff:              10,
		FanFavoriteCount:          3,
		StreamingHitStreams:       1_000_000,
	}
}
