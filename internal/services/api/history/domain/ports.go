package domain

import (
	"context"
	"time"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Recent(ctx context.Context, limit int) ([]SummaryRow, error)
	Stats(ctx context.Context, days int) (StatsOut, error)
	Purge(ctx context.Context, before time.Time) (PurgeOut, error)
}

// RecorderPort accepts one analysis summary per analyzed message. The
// analyze module records through it after every successful pipeline run
type RecorderPort interface {
	Record(ctx context.Context, in RecordInput) error
}
