package catalog

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/neurotab/neurotab/internal/events"
	"github.com/neurotab/neurotab/internal/fingerprint"
	"github.com/neurotab/neurotab/pkg/types"
)

// ScanResult summarizes one indexing pass.
type ScanResult struct {
	ScanID       string
	FilesSeen    int64
	FilesIndexed int64
	FilesFailed  int64
}

// Scanner walks a dataset tree and registers every recognized event source
// in the catalog.
type Scanner struct {
	Catalog *Catalog
}

// Scan indexes all event files under root. Files that fail to load are
// logged and counted but do not abort the pass; unreadable subtrees are
// skipped the same way.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	result := &ScanResult{ScanID: uuid.New().String()}
	if err := s.Catalog.BeginScan(ctx, result.ScanID, root); err != nil {
		return nil, err
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("catalog: skipping %s: %v", path, err)
			result.FilesFailed++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if types.ClassifySource(path) == types.SourceUnknown {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result.FilesSeen++
		if err := s.indexFile(ctx, root, path); err != nil {
			log.Printf("catalog: failed to index %s: %v", path, err)
			result.FilesFailed++
			return nil
		}
		result.FilesIndexed++
		return nil
	})

	if err := s.Catalog.FinishScan(ctx, result.ScanID,
		result.FilesSeen, result.FilesIndexed, result.FilesFailed); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}

	log.Printf("catalog: scan %s indexed %d/%d files under %s",
		result.ScanID, result.FilesIndexed, result.FilesSeen, root)
	return result, nil
}

// indexFile loads one event source and registers it.
func (s *Scanner) indexFile(ctx context.Context, root, path string) error {
	// The inheritance search needs a task label; sources without one are
	// still indexed, just without sidecar annotations.
	meta := events.NoMetadata()
	if types.TaskFromPath(path) != "" {
		meta = events.MetadataSearch()
	}

	tbl, err := events.Open(path, meta)
	if err != nil {
		return err
	}

	fp, err := fingerprint.SumFile(path)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	return s.Catalog.RegisterFile(ctx, &FileRecord{
		Root:        root,
		RelPath:     rel,
		Kind:        types.ClassifySource(path).String(),
		Task:        tbl.Task(),
		RowCount:    int64(tbl.Len()),
		ColumnCount: int64(len(tbl.ColumnNames())),
		Fingerprint: fp,
		Annotations: tbl.ColumnDescriptions(),
	})
}
