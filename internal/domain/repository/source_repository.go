package repository

import "context"

// SourceRepository resolves a requested source (a local path or a remote
// object) to a local file.
type SourceRepository interface {
	// Fetch returns a local path for source and a release func that removes
	// any downloaded copy.
	Fetch(ctx context.Context, source string) (string, func(), error)
}
