package tasks

import "fmt"

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
	ListAssets Phase = iota
	DownloadAssets
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ListAssets:
		return "list_assets"
	case DownloadAssets:
		return "download_assets"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func listingAssetsUpdate(step, total int, kind AssetKind) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Listing %s assets...", kind),
	}
}

func downloadCompletedUpdate(step, total int, res AssetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes)", step, total, res.Name, res.Size),
		Data:    res,
	}
}

func downloadFailedUpdate(step, total int, res AssetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Name, res.Error),
		Data:    res,
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s...", path),
	}
}
