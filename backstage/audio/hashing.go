package audio

import (
	"context"
	"hash/fnv"
)

var genreHints = []string{
	"Dream Pop",
	"Shoegaze",
	"Ambient Pop",
	"Synthpop",
	"Indie Rock",
	"Alternative Rock",
	"House",
	"Techno",
	"Hip Hop",
	"Trap",
	"Neo Soul",
	"Indie Folk",
	"Jazz Fusion",
}

var vocalTags = []string{"breathy", "layered", "falsetto", "spoken", "raspy", "clean"}

// HashAnalyzer derives stable pseudo-features from the file reference.
// The same upload always scores the same, which keeps the simulation
// reproducible without a real signal-processing backend.
type HashAnalyzer struct{}

func NewHashAnalyzer() *HashAnalyzer {
	return &HashAnalyzer{}
}

func (a *HashAnalyzer) Analyze(_ context.Context, fileRef string) (Features, error) {
	h := fnv.New64a()
	h.Write([]byte(fileRef))
	seed := h.Sum64()

	return Features{
		Tempo:             60 + float64(seed%140),
		EnergyLevel:       float64(seed>>8%1000) / 1000,
		DetectedGenreHint: genreHints[seed>>16%uint64(len(genreHints))],
		VocalFeatures:     []string{vocalTags[seed>>24%uint64(len(vocalTags))]},
		MusicQuality:      0.2 + 0.8*float64(seed>>32%1000)/1000,
	}, nil
}
