package career

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// genreFamilies is the fixed genre-family table used for the
// consistency heuristic. Genres in the same family score
// FamilyConsistency against each other.
var genreFamilies = map[string][]string{
	"ethereal":   {"Dream Pop", "Shoegaze", "Ambient Pop"},
	"pop":        {"Pop", "Synth Pop", "Electropop", "K-Pop"},
	"rock":       {"Rock", "Indie Rock", "Alternative Rock", "Punk Rock"},
	"electronic": {"House", "Techno", "Trance", "Drum and Bass"},
	"hiphop":     {"Hip Hop", "Trap", "Boom Bap", "Drill"},
	"rnb":        {"R&B", "Neo Soul", "Funk"},
	"folk":       {"Folk", "Indie Folk", "Country", "Americana"},
	"jazz":       {"Jazz", "Fusion", "Swing"},
	"metal":      {"Metal", "Doom Metal", "Black Metal", "Metalcore"},
}

var (
	genreToFamily  = map[string]string{}
	canonicalGenre = map[string]string{}
	knownGenres    []string
)

func init() {
	for family, genres := range genreFamilies {
		for _, g := range genres {
			key := normalizeKey(g)
			genreToFamily[key] = family
			canonicalGenre[key] = g
			knownGenres = append(knownGenres, g)
		}
	}
}

func normalizeKey(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// NormalizeGenre resolves a raw genre string (typically the upstream
// detected-genre hint) to its canonical table entry, fuzzy-matching
// slight misspellings like "dreampop". Unmatched input is returned
// trimmed, and scores as an unknown genre downstream.
func NormalizeGenre(raw string) string {
	key := normalizeKey(raw)
	if canonical, ok := canonicalGenre[key]; ok {
		return canonical
	}
	if len(key) < 3 {
		return strings.TrimSpace(raw)
	}
	matches := fuzzy.Find(key, knownGenres)
	if len(matches) > 0 {
		return matches[0].Str
	}
	return strings.TrimSpace(raw)
}

// GenreSimilarity scores how consistent releaseGenre is with the
// artist's established genre: 1.0 on an exact match, FamilyConsistency
// within a family, CrossFamilyConsistency across known families, and
// UnknownGenreConsistency when either side is unmapped.
func (c Config) GenreSimilarity(releaseGenre, artistGenre string) float64 {
	rk := normalizeKey(NormalizeGenre(releaseGenre))
	ak := normalizeKey(NormalizeGenre(artistGenre))

	if rk == ak && rk != "" {
		return 1.0
	}

	rf, rok := genreToFamily[rk]
	af, aok := genreToFamily[ak]
	if !rok || !aok {
		return c.UnknownGenreConsistency
	}
	if rf == af {
		return c.FamilyConsistency
	}
	return c.CrossFamilyConsistency
}
