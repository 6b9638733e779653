// Package domain defines core types and interfaces for the denylist feeds
package domain

import "time"

// RefreshStats summarizes one refresh pass
type RefreshStats struct {
	Fetched     int   // lines in the feed after comment stripping
	Hosts       int   // distinct normalized hosts
	Upserted    int   // rows inserted or re-seen
	Pruned      int64 // stale rows removed
	NotModified bool  // feed returned 304
}

// Entry is one denylisted host
type Entry struct {
	Host      string
	FirstSeen time.Time
	LastSeen  time.Time
}
