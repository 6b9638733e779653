// Package domain defines core types and interfaces for stored messages
package domain

import "time"

// AfterKey supports stable keyset pagination over (created_at, id)
type AfterKey struct {
	CreatedAt time.Time
	ID        string // uuid
}

// ListInput defines the input parameters for listing messages
type ListInput struct {
	Since time.Time // inclusive
	Until time.Time // exclusive
	After AfterKey  // zero value = from start
	Limit int       // hard-capped in service

	// UnscannedBelow selects only messages whose scan_version is lower
	// than the given value; zero disables the filter
	UnscannedBelow int
}

// Row is the minimal stored-message view shared across consumers
type Row struct {
	ID          string // uuid
	CreatedAt   time.Time
	Sender      string
	Subject     string
	Body        string
	Digest      string // sha256 hex of the body
	ScanVersion int    // 0 = never scanned
}

// WriteInput is one message to import. Digest is computed by the
// service when empty
type WriteInput struct {
	CreatedAt time.Time
	Sender    string
	Subject   string
	Body      string
	Digest    string
}
