// Package sidecar locates and parses BIDS *_events.json sidecar files.
package sidecar

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurotab/neurotab/internal/errors"
	"github.com/neurotab/neurotab/pkg/types"
)

// DefaultSearchDepth is the number of ancestor directory levels the
// inheritance search climbs: modality, session, subject, dataset.
const DefaultSearchDepth = 4

// Contents is a parsed sidecar: column name mapped to its annotations.
type Contents map[string]types.Annotations

// Resolver finds the sidecar applicable to an event source.
type Resolver struct {
	// Depth is the number of ancestor levels to search. Zero means
	// DefaultSearchDepth.
	Depth int
}

// Search walks ancestor directories of sourcePath looking for the nearest
// sidecar whose name ends with the sidecar suffix and contains task as a
// substring. The search starts in the source's own directory and climbs at
// most Depth levels; the first match wins and stops the search. Levels that
// cannot be listed are skipped. Returns nil with no error when nothing
// matches.
func (r *Resolver) Search(sourcePath, task string) (Contents, error) {
	if task == "" {
		return nil, errors.NewConfigError(errors.CodeMissingTaskID,
			fmt.Sprintf("cannot search for the sidecar of %s: no task-<label> in path", sourcePath))
	}

	depth := r.Depth
	if depth <= 0 {
		depth = DefaultSearchDepth
	}

	dir := filepath.Dir(sourcePath)
	for lvl := 0; lvl < depth; lvl++ {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// The tree above the file is unpredictable; skip unreadable levels.
			log.Printf("sidecar: skipping unreadable directory %s: %v", dir, err)
			dir = filepath.Dir(dir)
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, types.SidecarSuffix) {
				continue
			}
			if !strings.Contains(name, task) {
				continue
			}
			return LoadFile(filepath.Join(dir, name))
		}
		dir = filepath.Dir(dir)
	}

	return nil, nil
}

// LoadFile parses the sidecar at path: a top-level JSON object mapping
// column names to annotation objects.
func LoadFile(path string) (Contents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFormatError(errors.CodeMalformedSidecar,
			fmt.Sprintf("reading sidecar %s", path), err)
	}

	var contents Contents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, errors.WrapFormatError(errors.CodeMalformedSidecar,
			fmt.Sprintf("parsing sidecar %s", path), err)
	}
	return contents, nil
}
