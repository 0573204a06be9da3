package tasks

import (
	"fmt"

	"github.com/plsync/plsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveSource Phase = iota
	ResolveDest
	Compare
	SearchTracks
	ReviewMatches
	CreateCollection
	AddTracks
	Cleanup
	Favorites
)

func (p Phase) String() string {
	switch p {
	case ResolveSource:
		return "resolve_source"
	case ResolveDest:
		return "resolve_dest"
	case Compare:
		return "compare"
	case SearchTracks:
		return "search_tracks"
	case ReviewMatches:
		return "review_matches"
	case CreateCollection:
		return "create_collection"
	case AddTracks:
		return "add_tracks"
	case Cleanup:
		return "cleanup"
	case Favorites:
		return "favorites"
	default:
		return ""
	}
}

func resolveSourceUpdate(name, service string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %q from %s...", name, service),
	}
}

func resolveDestUpdate(name, service string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveDest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up %q on %s...", name, service),
	}
}

func compareUpdate(missing, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d tracks to sync, %d already present", missing, skipped),
	}
}

func searchTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func reviewUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReviewMatches,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reviewing %d fuzzy matches...", count),
	}
}

func createCollectionUpdate(name, service string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateCollection,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q on %s...", name, service),
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks...", count),
	}
}

func cleanupUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cleanup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing %d orphaned tracks...", count),
	}
}

func favoritesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Favorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Marking favorites...", step, total),
	}
}
