package domain

import (
	"context"
	"time"
)

// ReaderPort defines the read interface for stored messages
type ReaderPort interface {
	// List returns up to Limit rows ordered by (created_at, id)
	List(ctx context.Context, in ListInput) (rows []Row, next AfterKey, err error)
}

// WriterPort defines the write interface used by the importer and the
// scan worker
type WriterPort interface {
	// InsertBatch stores messages, skipping duplicates by digest.
	// Returns the number of rows actually inserted
	InsertBatch(ctx context.Context, xs []WriteInput) (int, error)

	// MarkScanned stamps the given messages with the scan version
	MarkScanned(ctx context.Context, ids []string, version int, at time.Time) error
}
