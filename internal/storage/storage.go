// Package storage provides object storage abstractions for staging remote
// dataset files into a local cache before loading.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrFetchFailed    = errors.New("fetch failed")
)

// Fetcher pulls dataset objects from a backing store to the local
// filesystem. Implementations include S3 and a local directory for
// development and testing.
type Fetcher interface {
	// Fetch downloads an object to localPath, creating parent directories
	// as needed.
	Fetch(ctx context.Context, objectPath, localPath string) error

	// Exists checks whether an object is present in the store.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// List returns all object paths under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
