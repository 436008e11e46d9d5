package events

import "github.com/neurotab/neurotab/pkg/types"

// Built-in annotation text attached to columns created from SNIRF stimulus
// streams. Sidecar content always wins over these defaults.
const (
	stimOnsetDescription    = "Time relative to the time origin when the stimulus takes on a value."
	stimOnsetUnits          = "s"
	stimDurationDescription = "The time in seconds that the stimulus value continues following the onset."
	stimDurationUnits       = "s"
	stimValueDescription    = "Amplitude of the stimulus (from SNIRF)."
	stimNameDescription     = "A string describing the stimulus condition (from SNIRF)."
)

// trialTypeColumn is the fixed column appended to every stimulus stream,
// holding the stream's name for each row it contributes.
const trialTypeColumn = "trial_type"

// defaultStimLabels are the positional labels assumed when a stimulus stream
// declares none.
var defaultStimLabels = []string{"onset", "duration", "value"}

// defaultStimAnnotations returns the built-in annotations for a stim-derived
// column, or an empty set for synthetic column names.
func defaultStimAnnotations(name string) types.Annotations {
	switch name {
	case "onset":
		return types.Annotations{"Description": stimOnsetDescription, "Units": stimOnsetUnits}
	case "duration":
		return types.Annotations{"Description": stimDurationDescription, "Units": stimDurationUnits}
	case "value":
		return types.Annotations{"Description": stimValueDescription}
	case trialTypeColumn:
		return types.Annotations{"Description": stimNameDescription}
	default:
		return types.Annotations{}
	}
}
