package repository

import (
	"context"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

// RecordStream is an open billing record file. Next returns io.EOF once the
// stream is exhausted; Close releases every handle and temporary artifact.
type RecordStream interface {
	Next() (entity.UsageRecord, error)
	Close() error
}

// ArchiveRepository opens billing record files nested inside archives.
type ArchiveRepository interface {
	// OpenRecords opens target inside the inner archive inner, itself stored
	// in the outer archive at outerPath.
	OpenRecords(ctx context.Context, outerPath, inner, target string) (RecordStream, error)
	// Close removes anything left over by the batch.
	Close() error
}
