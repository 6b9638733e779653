package domain

import (
	"context"
	"time"
)

// RunnerPort is the external port for the scan job
type RunnerPort interface {
	RunRange(ctx context.Context, start, end time.Time) error
}

// WriterPort persists analysis outcomes
type WriterPort interface {
	// WriteBatch persists analyses, idempotent on (message_id, scan_version)
	WriteBatch(ctx context.Context, xs []AnalysisWrite) error
}

// EventSink receives flat analysis events for offline analytics. A nil
// sink disables the double-write
type EventSink interface {
	AppendEvents(ctx context.Context, xs []AnalysisWrite) error
}
