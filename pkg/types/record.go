// Package types provides core data types for neurotab.
package types

// Record represents a single event row: an insertion-ordered mapping from
// column name to a scalar value (string, int64, or float64).
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under name, appending the key on first use.
// Setting an existing key replaces the value but keeps its position.
func (r *Record) Set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

// Get returns the value for name and whether it is present.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the record holds a value for name.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Keys returns the record's column names in insertion order.
// The returned slice is a copy.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of values in the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(cp.keys, r.keys)
	for k, v := range r.values {
		cp.values[k] = v
	}
	return cp
}
