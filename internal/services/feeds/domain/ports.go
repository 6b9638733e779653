package domain

import "context"

// RefresherPort drives feed refresh passes
type RefresherPort interface {
	// RefreshOnce fetches the feed and reconciles deny_domains
	RefreshOnce(ctx context.Context) (RefreshStats, error)
	// Run loops RefreshOnce on the configured interval until ctx ends
	Run(ctx context.Context) error
}

// LookupPort answers host membership from an in-memory snapshot. The
// analyzer consults it on every extracted URL, so implementations must
// be lock-light and never touch the network or the database
type LookupPort interface {
	// Contains reports whether host is denylisted
	Contains(host string) bool
	// Reload replaces the snapshot from storage
	Reload(ctx context.Context) error
	// RunSnapshotReload loops Reload on the configured interval until ctx ends
	RunSnapshotReload(ctx context.Context) error
}
