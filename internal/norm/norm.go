// package norm canonicalizes free-text track metadata into comparable keys.
//
// Providers spell, capitalize, and annotate titles and artists differently.
// Normalize collapses those differences into a stable lowercase form, and Key
// builds the "artist:title" signature used as the sole cross-provider track
// identity. StripNoise removes release annotations ("(feat. X)", "- Remastered")
// and is used only to build alternate search queries, never for identity.
package norm

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// bracketed matches parenthetical or square-bracket annotations, including
// any leading whitespace: " (feat. Dido)", " [Live]".
var bracketed = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

// noiseSuffixes are applied in order after bracket removal. The order mirrors
// the suffix forms providers append to titles, most specific first.
var noiseSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*single\s*version.*$`),
	regexp.MustCompile(`(?i)\s*-\s*remaster.*$`),
	regexp.MustCompile(`(?i)\s*-\s*mono\s*$`),
	regexp.MustCompile(`(?i)\s*-\s*stereo\s*$`),
	regexp.MustCompile(`(?i)\s*-\s*live.*$`),
	regexp.MustCompile(`(?i)\s*-\s*acoustic.*$`),
	regexp.MustCompile(`(?i)\s*-\s*bonus\s*track.*$`),
	regexp.MustCompile(`(?i)\s*-\s*deluxe.*$`),
	regexp.MustCompile(`(?i)\s*feat\..*$`),
	regexp.MustCompile(`(?i)\s*ft\..*$`),
}

// Normalize lowercases text, replaces every run of non-alphanumeric,
// non-whitespace characters with a single space, collapses whitespace and
// trims. It is deterministic, total and idempotent: empty input yields "".
func Normalize(text string) string {
	text = nonWord.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Join(strings.Fields(text), " ")
}

// Key returns the normalized "artist:title" signature for a track.
//
// The key is order-sensitive (artist first) and stable across runs; it is
// used as a set/cache key throughout the engine.
func Key(artist, title string) string {
	return Normalize(artist) + ":" + Normalize(title)
}

// StripNoise removes bracketed annotations and common release suffixes that
// hurt provider search relevance. The result keeps the original casing so it
// can be sent back to a search endpoint as-is.
func StripNoise(text string) string {
	text = bracketed.ReplaceAllString(text, "")
	for _, re := range noiseSuffixes {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// Words returns the normalized word set of text.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}
