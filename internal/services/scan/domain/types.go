// Package domain defines the core types and interfaces for the scan service
package domain

import "time"

// Input controls the scan window and batching
type Input struct {
	Since    time.Time
	Until    time.Time
	PageSize int
	Workers  int
	Version  int
	DryRun   bool
}

// AnalysisWrite is one persisted analysis outcome. The message body is
// never stored here; only the digest, an excerpt and the structured
// result survive
type AnalysisWrite struct {
	MessageID   string // uuid, required
	CreatedAt   time.Time
	Digest      string // sha256 hex of the analyzed body
	Excerpt     string
	Score       float64
	Tier        string
	RawSum      float64
	ThreatHits  int
	AuthHits    int
	FinHits     int
	ImpersHits  int
	ContextHits int
	StatHits    int
	URLCount    int
	LangCode    string // ISO 639-3 hint, empty when unknown
	ScanVersion int
	RunID       string // uuid of the scan run that produced the row
}
