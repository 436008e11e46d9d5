package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_Deterministic(t *testing.T) {
	a := Sum([]byte("onset\tduration\n1.0\t5.0\n"))
	b := Sum([]byte("onset\tduration\n1.0\t5.0\n"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 2*Size)
}

func TestSumFile_MatchesSum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub-01_task-x_events.tsv")
	content := []byte("onset\n1.0\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	got, err := SumFile(path)
	require.NoError(t, err)
	assert.Equal(t, Sum(content), got)
}

func TestSumFile_Missing(t *testing.T) {
	_, err := SumFile(filepath.Join(t.TempDir(), "absent.tsv"))
	assert.Error(t, err)
}

func TestProperty_DistinctContentDistinctFingerprint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("different content yields different fingerprints", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return Sum([]byte(a)) == Sum([]byte(b))
			}
			return Sum([]byte(a)) != Sum([]byte(b))
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
