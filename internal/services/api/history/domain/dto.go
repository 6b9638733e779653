// Package domain holds DTOs for history http and service contracts
package domain

import "time"

// RecordInput is one analysis summary to persist. The message body is
// never recorded; only its digest, a short excerpt and the outcome
type RecordInput struct {
	Digest      string
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
	LangCode    string
}

// SummaryRow is one stored analysis summary
type SummaryRow struct {
	ID        string  `json:"id" example:"0b7e2a4e-8f0a-4b7e-9f2a-2f4a6c8d0e1f"`
	CreatedAt string  `json:"created_at" example:"2025-08-01T12:00:00Z"`
	Digest    string  `json:"digest" example:"9f86d081884c7d65..."`
	Excerpt   string  `json:"excerpt" example:"URGENT: Your bank account has been SUSPENDED…"`
	Score     float64 `json:"score" example:"9.7"`
	Tier      string  `json:"tier" example:"high"`
	URLCount  int     `json:"url_count" example:"1"`
	Hits      int     `json:"hits" example:"12"`
	LangCode  string  `json:"lang,omitempty" example:"eng"`
}

// StatsOut summarizes recent analyses
type StatsOut struct {
	Days          int              `json:"days" example:"7"`
	Total         int64            `json:"total" example:"1342"`
	AvgScore      float64          `json:"avg_score" example:"4.2"`
	Tiers         map[string]int64 `json:"tiers"`
	TopCategories []CategoryCount  `json:"top_categories"`
}

// CategoryCount is one category's hit total
type CategoryCount struct {
	Category string `json:"category" example:"threat"`
	Hits     int64  `json:"hits" example:"412"`
}

// PurgeOut reports how many summaries a purge removed
type PurgeOut struct {
	Deleted int64     `json:"deleted" example:"120"`
	Before  time.Time `json:"before" example:"2025-08-01T00:00:00Z"`
}
