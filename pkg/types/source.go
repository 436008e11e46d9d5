package types

import "strings"

// SourceKind classifies an event source path by its recognized suffix.
// The classification is made once at load entry; all later dispatch
// switches on the kind rather than re-inspecting the path.
type SourceKind int

const (
	// SourceUnknown means the path matches no recognized format.
	SourceUnknown SourceKind = iota

	// SourceTabular is a BIDS *_events.tsv tabular text file.
	SourceTabular

	// SourceSNIRF is a SNIRF binary container (*.snirf).
	SourceSNIRF
)

// Recognized source suffixes.
const (
	TabularSuffix = "_events.tsv"
	SNIRFSuffix   = ".snirf"
	SidecarSuffix = "_events.json"
)

// String returns a human-readable name for the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceTabular:
		return "tabular"
	case SourceSNIRF:
		return "snirf"
	default:
		return "unknown"
	}
}

// ClassifySource returns the SourceKind for a path.
func ClassifySource(path string) SourceKind {
	switch {
	case strings.HasSuffix(path, TabularSuffix):
		return SourceTabular
	case strings.HasSuffix(path, SNIRFSuffix):
		return SourceSNIRF
	default:
		return SourceUnknown
	}
}

// TaskFromPath extracts the BIDS task label from a source path: the
// substring between the literal "task-" marker and the next "_" boundary.
// Returns the empty string when the marker is absent.
func TaskFromPath(path string) string {
	_, after, found := strings.Cut(path, "task-")
	if !found {
		return ""
	}
	task, _, _ := strings.Cut(after, "_")
	return task
}
