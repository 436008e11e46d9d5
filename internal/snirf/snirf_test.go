package snirf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStim_Cols(t *testing.T) {
	s := &Stim{Data: [][]float64{{1, 2, 3}, {4, 5, 6}}}
	assert.Equal(t, 3, s.Cols())

	empty := &Stim{}
	assert.Equal(t, 0, empty.Cols())
}

func TestFilterIndexed(t *testing.T) {
	names := []string{"nirs", "nirs2", "nirs10", "metaDataTags", "nirsX", "formatVersion"}
	got := filterIndexed(names, "nirs")
	assert.Equal(t, []string{"nirs", "nirs2", "nirs10"}, got)
}

func TestSortIndexed_NumericSuffixOrder(t *testing.T) {
	names := []string{"stim10", "stim2", "stim1"}
	sortIndexed(names, "stim")
	assert.Equal(t, []string{"stim1", "stim2", "stim10"}, names)
}

func TestSortIndexed_BarePrefixFirst(t *testing.T) {
	names := []string{"nirs3", "nirs"}
	sortIndexed(names, "nirs")
	assert.Equal(t, []string{"nirs", "nirs3"}, names)
}
