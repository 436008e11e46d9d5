package types

// Annotations holds the sidecar description of one column: free-form
// annotation keys (conventionally "Description", "Units", "Levels", ...)
// mapped to arbitrary JSON-compatible values. Content equality is the
// contract; JSON object key order is not load-bearing.
type Annotations map[string]any

// Clone returns a shallow copy of the annotations.
// Values are shared; sidecar content is treated as read-only once attached.
func (a Annotations) Clone() Annotations {
	if a == nil {
		return nil
	}
	cp := make(Annotations, len(a))
	for k, v := range a {
		cp[k] = v
	}
	return cp
}

// Column is one declared column of an event table: its name plus the
// annotations attached from a sidecar or from built-in defaults.
type Column struct {
	// Name is the column name as discovered from the source.
	Name string

	// Annotations holds the column's sidecar description. Empty by default.
	Annotations Annotations
}
