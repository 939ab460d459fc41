package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Err     error  // Set when the step failed
}

// Operation phase enumeration
type Phase int

const (
	LoadCatalog Phase = iota
	LoadWatchlist
	LoadViewed
	SessionReady
	ExportCollection
)

func (p Phase) String() string {
	switch p {
	case LoadCatalog:
		return "load_catalog"
	case LoadWatchlist:
		return "load_watchlist"
	case LoadViewed:
		return "load_viewed"
	case SessionReady:
		return "session_ready"
	case ExportCollection:
		return "export_collection"
	default:
		return ""
	}
}

func loadStartedUpdate(phase Phase) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Step: 0, Total: 1, Message: fmt.Sprintf("%s...", phaseLabel(phase))}
}

func loadFinishedUpdate(phase Phase, count int, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   phase,
			Step:    1,
			Total:   1,
			Message: fmt.Sprintf("✗ %s: %v", phaseLabel(phase), err),
			Err:     err,
		}
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ %s (%d)", phaseLabel(phase), count),
	}
}

func sessionReadyUpdate(r *SessionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SessionReady,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d movies, %d on watchlist, %d viewed", len(r.Catalog), len(r.Snapshot.Watchlist), len(r.Snapshot.Viewed)),
	}
}

func exportingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
		Err:     err,
	}
}

func phaseLabel(p Phase) string {
	switch p {
	case LoadCatalog:
		return "Loading catalog"
	case LoadWatchlist:
		return "Loading watchlist"
	case LoadViewed:
		return "Loading viewed"
	default:
		return p.String()
	}
}
