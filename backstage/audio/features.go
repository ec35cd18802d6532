package audio

import "context"

// Features is the opaque record supplied by the upstream audio analysis
// collaborator. The engine performs no signal processing itself and
// treats these values as given.
type Features struct {
	Tempo             float64
	EnergyLevel       float64
	DetectedGenreHint string
	VocalFeatures     []string

	// MusicQuality is the upstream quality estimate, clamped to [0, 1]
	// at the scoring boundary.
	MusicQuality float64
}

// Analyzer produces features for an uploaded file reference.
type Analyzer interface {
	Analyze(ctx context.Context, fileRef string) (Features, error)
}
