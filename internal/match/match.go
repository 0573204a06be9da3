// package match finds the best provider search candidate for a target track
// and grades how trustworthy the correspondence is.
//
// Matching runs three ordered passes over the candidate list (exact, fuzzy
// word-overlap, title-only); the first candidate accepted by a pass wins and
// later passes are not tried. Fuzzy and title-only hits additionally carry a
// [Quality] grade used to rank them for human review.
package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/norm"
)

const (
	// WordOverlapThreshold is the minimum share of a target's words that must
	// appear in a candidate for the fuzzy pass to accept it.
	WordOverlapThreshold = 0.5

	// ArtistSimilarityThreshold is the minimum word-set Jaccard index between
	// target and candidate artists for a Good grade.
	ArtistSimilarityThreshold = 0.5

	// DurationWarningSec flags matches whose durations differ by more than
	// this many seconds. Informational only; never rejects a match.
	DurationWarningSec = 10
)

// Outcome classifies how a candidate was matched to the target track.
type Outcome int

const (
	NotFound  Outcome = iota
	Exact             // artist and title each contain the other (normalized)
	Fuzzy             // >=50% word overlap on both title and artist
	TitleOnly         // normalized titles equal, artist ignored
)

func (o Outcome) String() string {
	switch o {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	case TitleOnly:
		return "title_only"
	default:
		return "not_found"
	}
}

// Quality grades non-exact matches for review ranking.
type Quality int

const (
	Good   Quality = iota // artist matches modulo spelling differences
	Medium                // title matches, artist differs
	Bad                   // questionable correspondence
)

func (q Quality) String() string {
	switch q {
	case Good:
		return "good"
	case Medium:
		return "medium"
	default:
		return "bad"
	}
}

// Result is the outcome of matching one target track against a candidate list.
//
// Candidate is nil exactly when Outcome is NotFound. Quality and Similarity
// are meaningful only for Fuzzy and TitleOnly outcomes.
type Result struct {
	Track           models.Track
	Candidate       *models.SearchCandidate
	Outcome         Outcome
	Quality         Quality
	Similarity      float64 // Jaro-Winkler over "artist title", display only
	DurationWarning bool
}

// FindBestMatch evaluates candidates in three ordered passes and returns the
// first hit. exactOnly stops after the exact pass; fuzzy and title-only
// outcomes are never produced in that mode.
func FindBestMatch(target models.Track, candidates []models.SearchCandidate, exactOnly bool) Result {
	for _, cand := range candidates {
		if containsEither(target.Artist, cand.Artist) && containsEither(target.Title, cand.Title) {
			return newResult(target, cand, Exact)
		}
	}

	if exactOnly {
		return Result{Track: target, Outcome: NotFound}
	}

	for _, cand := range candidates {
		if wordsMatch(target.Title, cand.Title) && wordsMatch(target.Artist, cand.Artist) {
			return newResult(target, cand, Fuzzy)
		}
	}

	for _, cand := range candidates {
		if norm.Normalize(target.Title) == norm.Normalize(cand.Title) {
			return newResult(target, cand, TitleOnly)
		}
	}

	return Result{Track: target, Outcome: NotFound}
}

func newResult(target models.Track, cand models.SearchCandidate, outcome Outcome) Result {
	r := Result{Track: target, Candidate: &cand, Outcome: outcome}
	if both := target.Duration > 0 && cand.Duration > 0; both {
		diff := target.Duration - cand.Duration
		if diff < 0 {
			diff = -diff
		}
		r.DurationWarning = diff > DurationWarningSec
	}
	if outcome == Fuzzy || outcome == TitleOnly {
		r.Quality = classify(target, cand)
		r.Similarity = similarity(target, cand)
	}
	return r
}

// containsEither reports whether either normalized string contains the other.
func containsEither(a, b string) bool {
	na, nb := norm.Normalize(a), norm.Normalize(b)
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// wordsMatch reports whether at least WordOverlapThreshold of needle's
// normalized words appear among haystack's.
func wordsMatch(needle, haystack string) bool {
	needleWords := norm.Words(needle)
	if len(needleWords) == 0 {
		return false
	}

	haystackSet := make(map[string]struct{})
	for _, w := range norm.Words(haystack) {
		haystackSet[w] = struct{}{}
	}

	matched := 0
	for _, w := range needleWords {
		if _, ok := haystackSet[w]; ok {
			matched++
		}
	}
	return float64(matched) >= float64(len(needleWords))*WordOverlapThreshold
}

// ArtistSimilarity returns the Jaccard index over the normalized word sets of
// two artist names. Returns 0 when either side normalizes to nothing.
func ArtistSimilarity(a, b string) float64 {
	setA := make(map[string]struct{})
	for _, w := range norm.Words(a) {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{})
	for _, w := range norm.Words(b) {
		setB[w] = struct{}{}
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// classify grades a non-exact match. A high artist similarity means the hit
// differs only in spelling or transliteration; an equal or contained title
// with a different artist is plausible but needs a human eye.
func classify(target models.Track, cand models.SearchCandidate) Quality {
	if ArtistSimilarity(target.Artist, cand.Artist) >= ArtistSimilarityThreshold {
		return Good
	}

	origTitle := norm.Normalize(target.Title)
	foundTitle := norm.Normalize(cand.Title)
	if origTitle == foundTitle || strings.Contains(foundTitle, origTitle) || strings.Contains(origTitle, foundTitle) {
		return Medium
	}
	return Bad
}

// similarity is a whole-string Jaro-Winkler score shown to reviewers next to
// each fuzzy match. It has no bearing on accept/reject decisions.
func similarity(target models.Track, cand models.SearchCandidate) float64 {
	a := strings.ToLower(target.Artist + " " + target.Title)
	b := strings.ToLower(cand.Artist + " " + cand.Title)
	return strutil.Similarity(a, b, metrics.NewJaroWinkler())
}

// Queries returns the ordered, de-duplicated search strategies for a track.
// Strategies are tried in order until one yields a usable match: the raw
// "artist title" pair, the noise-stripped pair, the bare title, the stripped
// title, and finally the stripped artist with the first title word.
func Queries(t models.Track) []string {
	strippedArtist := norm.StripNoise(t.Artist)
	strippedTitle := norm.StripNoise(t.Title)

	strategies := []string{
		strings.TrimSpace(t.Artist + " " + t.Title),
		strings.TrimSpace(strippedArtist + " " + strippedTitle),
		t.Title,
		strippedTitle,
	}

	if titleWords := strings.Fields(strippedTitle); strippedArtist != "" && len(titleWords) > 0 {
		strategies = append(strategies, strippedArtist+" "+titleWords[0])
	}

	seen := make(map[string]struct{}, len(strategies))
	unique := make([]string, 0, len(strategies))
	for _, s := range strategies {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}
