package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchMovie Phase = iota
	ExportMovie
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchMovie:
		return "fetch_movie"
	case ExportMovie:
		return "export_movie"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingMovieUpdate(step, total, id int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovie,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching movie %d...", id),
	}
}

func exportCompletedUpdate(step, total int, title string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMovie,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d files)", title, files),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMovie,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", title, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
