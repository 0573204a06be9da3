package match

import (
	"testing"

	"github.com/plsync/plsync/internal/models"
)

func track(artist, title string) models.Track {
	return models.Track{Artist: artist, Title: title}
}

func candidate(id, artist, title string) models.SearchCandidate {
	return models.SearchCandidate{ID: id, Artist: artist, Title: title}
}

func TestFindBestMatch(t *testing.T) {
	tests := []struct {
		name       string
		target     models.Track
		candidates []models.SearchCandidate
		exactOnly  bool
		wantOut    Outcome
		wantID     string
	}{
		{
			name:   "exact match on identical metadata",
			target: track("Queen", "Bohemian Rhapsody"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Queen", "Bohemian Rhapsody"),
			},
			wantOut: Exact,
			wantID:  "t1",
		},
		{
			name:   "exact via substring relation both fields",
			target: track("Queen", "Bohemian Rhapsody"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Queen", "Bohemian Rhapsody - Remastered 2011"),
			},
			wantOut: Exact,
			wantID:  "t1",
		},
		{
			name:   "exact pass wins over earlier fuzzy-only candidate",
			target: track("The Beatles", "Let It Be"),
			candidates: []models.SearchCandidate{
				candidate("fuzzy", "Beatles Revival", "Let It Be Forever"),
				candidate("exact", "The Beatles", "Let It Be"),
			},
			wantOut: Exact,
			wantID:  "exact",
		},
		{
			name:   "substring artist short-circuits to exact",
			target: track("The Beatles", "Hey Jude"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Beatles", "Hey Jude Anthology Mix"),
			},
			wantOut: Exact, // "beatles" is a substring of "the beatles"
			wantID:  "t1",
		},
		{
			name:   "fuzzy when substrings disagree but words overlap",
			target: track("Florence and the Machine", "Dog Days Are Over"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Florence Machine Orchestra", "Dog Days Are Over Rework"),
			},
			wantOut: Fuzzy,
			wantID:  "t1",
		},
		{
			name:   "title only when artist shares no words",
			target: track("Jeff Buckley", "Hallelujah"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Pentatonix", "Hallelujah"),
			},
			wantOut: TitleOnly,
			wantID:  "t1",
		},
		{
			name:      "exactOnly suppresses fuzzy",
			target:    track("Florence and the Machine", "Dog Days Are Over"),
			exactOnly: true,
			candidates: []models.SearchCandidate{
				candidate("t1", "Florence Machine Orchestra", "Dog Days Are Over Rework"),
			},
			wantOut: NotFound,
		},
		{
			name:      "exactOnly still allows title equality pass",
			target:    track("Jeff Buckley", "Hallelujah"),
			exactOnly: true,
			candidates: []models.SearchCandidate{
				candidate("t1", "Pentatonix", "Hallelujah"),
			},
			wantOut: TitleOnly,
			wantID:  "t1",
		},
		{
			name:       "no candidates",
			target:     track("Queen", "Bohemian Rhapsody"),
			candidates: nil,
			wantOut:    NotFound,
		},
		{
			name:   "nothing matches",
			target: track("Queen", "Bohemian Rhapsody"),
			candidates: []models.SearchCandidate{
				candidate("t1", "Slayer", "Raining Blood"),
			},
			wantOut: NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindBestMatch(tt.target, tt.candidates, tt.exactOnly)
			if got.Outcome != tt.wantOut {
				t.Fatalf("FindBestMatch() outcome = %v, want %v", got.Outcome, tt.wantOut)
			}
			if tt.wantOut == NotFound {
				if got.Candidate != nil {
					t.Errorf("FindBestMatch() candidate = %v, want nil", got.Candidate)
				}
				return
			}
			if got.Candidate == nil {
				t.Fatal("FindBestMatch() candidate is nil for a found outcome")
			}
			if got.Candidate.ID != tt.wantID {
				t.Errorf("FindBestMatch() candidate ID = %s, want %s", got.Candidate.ID, tt.wantID)
			}
		})
	}
}

func TestFindBestMatchNeverReturnsFuzzyOrTitleOnlyWhenExactOnly(t *testing.T) {
	target := track("The Beatles", "Let It Be")
	candidates := []models.SearchCandidate{
		candidate("f1", "Beatles Revival", "Let It Be Forever More"),
		candidate("f2", "Beatles Again", "Let It Be Again Tonight"),
		// Equal title, unrelated artist: a title-only hit in normal mode.
		candidate("t1", "Completely Different", "Let It Be"),
	}

	got := FindBestMatch(target, candidates, true)
	if got.Outcome != NotFound {
		t.Errorf("exactOnly returned %v, want NotFound", got.Outcome)
	}

	// The title-only candidate does hit in normal mode.
	got = FindBestMatch(target, candidates[2:], false)
	if got.Outcome != TitleOnly {
		t.Errorf("FindBestMatch() outcome = %v, want TitleOnly", got.Outcome)
	}
}

func TestWordOverlapThresholdBoundary(t *testing.T) {
	// "The Beatles" vs "Beatles": 1 of 2 target words overlap, exactly 0.5.
	if !wordsMatch("The Beatles", "Beatles") {
		t.Error("wordsMatch should accept overlap of exactly 0.5")
	}
	// 1 of 3 words is below threshold.
	if wordsMatch("One Two Three", "Three") {
		t.Error("wordsMatch should reject overlap below 0.5")
	}
}

func TestArtistSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Eminem", b: "Eminem", want: 1.0},
		{name: "feature credit dilutes union", a: "Eminem", b: "Eminem ft. Dido", want: 1.0 / 3.0},
		{name: "disjoint", a: "Queen", b: "Slayer", want: 0},
		{name: "empty side", a: "", b: "Queen", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArtistSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ArtistSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestQualityGrading(t *testing.T) {
	// Jaccard {eminem} vs {eminem, ft, dido} = 1/3 < 0.5, but titles are
	// equal, so the grade falls through to Medium.
	target := track("Eminem", "Stan")
	cand := candidate("t1", "Eminem ft. Dido", "Stan")
	if got := classify(target, cand); got != Medium {
		t.Errorf("classify() = %v, want Medium", got)
	}

	// Artist word overlap >= 0.5 grades Good even with a diverging title.
	cand = candidate("t2", "Eminem", "Stan Part Two")
	if got := classify(track("Eminem", "Stan"), cand); got != Good {
		t.Errorf("classify() = %v, want Good", got)
	}

	// Different artist, different title: Bad.
	cand = candidate("t3", "Dido", "Thank You")
	if got := classify(target, cand); got != Bad {
		t.Errorf("classify() = %v, want Bad", got)
	}
}

func TestDurationWarning(t *testing.T) {
	target := models.Track{Artist: "Queen", Title: "Bohemian Rhapsody", Duration: 355}

	near := models.SearchCandidate{ID: "a", Artist: "Queen", Title: "Bohemian Rhapsody", Duration: 360}
	if r := FindBestMatch(target, []models.SearchCandidate{near}, false); r.DurationWarning {
		t.Error("5s difference should not warn")
	}

	far := models.SearchCandidate{ID: "b", Artist: "Queen", Title: "Bohemian Rhapsody", Duration: 300}
	if r := FindBestMatch(target, []models.SearchCandidate{far}, false); !r.DurationWarning {
		t.Error("55s difference should warn")
	}

	// Warning is informational: the match is still returned.
	if r := FindBestMatch(target, []models.SearchCandidate{far}, false); r.Outcome != Exact {
		t.Errorf("duration mismatch must not exclude a match, got %v", r.Outcome)
	}

	// Unknown duration on either side skips the check.
	unknown := models.SearchCandidate{ID: "c", Artist: "Queen", Title: "Bohemian Rhapsody"}
	if r := FindBestMatch(target, []models.SearchCandidate{unknown}, false); r.DurationWarning {
		t.Error("unknown candidate duration should not warn")
	}
}

func TestQueries(t *testing.T) {
	tr := models.Track{Artist: "Eminem", Title: "Stan (feat. Dido)"}
	got := Queries(tr)

	want := []string{
		"Eminem Stan (feat. Dido)",
		"Eminem Stan",
		"Stan (feat. Dido)",
		"Stan",
		// "Eminem Stan" as artist+first-word duplicates the cleaned pair and
		// is dropped by de-duplication.
	}

	if len(got) != len(want) {
		t.Fatalf("Queries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Queries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueriesMultiWordTitle(t *testing.T) {
	tr := models.Track{Artist: "Queen", Title: "Bohemian Rhapsody - Remastered 2011"}
	got := Queries(tr)

	last := got[len(got)-1]
	if last != "Queen Bohemian" {
		t.Errorf("last strategy = %q, want artist + first stripped title word", last)
	}
}

func TestQueriesEmptyArtist(t *testing.T) {
	tr := models.Track{Title: "Hallelujah"}
	got := Queries(tr)

	for _, q := range got {
		if q == "" {
			t.Error("Queries() produced an empty strategy")
		}
	}
	if got[0] != "Hallelujah" {
		t.Errorf("Queries()[0] = %q, want %q", got[0], "Hallelujah")
	}
}
