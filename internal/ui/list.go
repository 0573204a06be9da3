package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/plsync/plsync/internal/match"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/tasks"
)

var _ list.Item = collectionItem{}

// collectionItem wraps [models.Collection] to implement [list.Item].
type collectionItem struct {
	collection models.Collection
}

func (i collectionItem) FilterValue() string { return i.collection.Name }
func (i collectionItem) Title() string       { return i.collection.Name }
func (i collectionItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.collection.TrackCount)
	if i.collection.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.collection.Description)
	}
	return desc
}

// qualityIndicator renders the match grade with a colored marker.
func qualityIndicator(q match.Quality) string {
	switch q {
	case match.Good:
		return styles.ok.Render("✓ good")
	case match.Medium:
		return styles.warn.Render("~ medium")
	default:
		return styles.err.Render("✗ bad")
	}
}

// matchLabel renders one fuzzy match row: the original track, the candidate
// it mapped to, the grade, a similarity percentage and any duration delta.
func matchLabel(fm tasks.FuzzyMatch) string {
	label := fmt.Sprintf("%s - %s  →  %s - %s  [%s, %.0f%%]",
		fm.Original.Artist, fm.Original.Title,
		fm.Candidate.Artist, fm.Candidate.Title,
		qualityIndicator(fm.Quality), fm.Similarity*100)

	if fm.DurationWarning {
		delta := fm.Candidate.Duration - fm.Original.Duration
		label += " " + styles.warn.Render(fmt.Sprintf("(duration %+ds)", delta))
	}
	return label
}

// orphanLabel renders one orphan row.
func orphanLabel(o tasks.Orphan) string {
	return fmt.Sprintf("%s - %s", o.Artist, o.Title)
}
