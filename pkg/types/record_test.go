package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_SetPreservesInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("onset", 1.5)
	r.Set("duration", 2.0)
	r.Set("trial_type", "tapping")

	assert.Equal(t, []string{"onset", "duration", "trial_type"}, r.Keys())
	assert.Equal(t, 3, r.Len())
}

func TestRecord_SetExistingKeyKeepsPosition(t *testing.T) {
	r := NewRecord()
	r.Set("onset", 1.5)
	r.Set("duration", 2.0)
	r.Set("onset", 9.0)

	assert.Equal(t, []string{"onset", "duration"}, r.Keys())
	v, ok := r.Get("onset")
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestRecord_GetMissing(t *testing.T) {
	r := NewRecord()
	r.Set("onset", "1.5")

	_, ok := r.Get("duration")
	assert.False(t, ok)
	assert.False(t, r.Has("duration"))
	assert.True(t, r.Has("onset"))
}

func TestRecord_Clone(t *testing.T) {
	r := NewRecord()
	r.Set("onset", "1.5")
	r.Set("value", "1")

	cp := r.Clone()
	cp.Set("onset", "7.0")
	cp.Set("extra", "x")

	v, _ := r.Get("onset")
	assert.Equal(t, "1.5", v)
	assert.False(t, r.Has("extra"))
	assert.Equal(t, []string{"onset", "value"}, r.Keys())
}

func TestAnnotations_Clone(t *testing.T) {
	a := Annotations{"Description": "d", "Units": "s"}
	cp := a.Clone()
	cp["Units"] = "ms"

	assert.Equal(t, "s", a["Units"])

	var nilAnn Annotations
	assert.Nil(t, nilAnn.Clone())
}
