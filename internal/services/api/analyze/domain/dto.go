// Package domain holds DTOs for analyze http and service contracts
package domain

import "phishbowl/internal/core/report"

// AnalyzeInput is the analyze request body
type AnalyzeInput struct {
	Message string `json:"message" validate:"required" example:"URGENT: verify your account at http://bit.ly/x"`
}

// AnalyzeOut is the full pipeline report plus the body digest the
// history row was recorded under
type AnalyzeOut struct {
	report.Report
	Digest string `json:"digest" example:"9f86d081884c7d65..."`
}

// Example is one curated demonstration message
type Example struct {
	Title        string `json:"title" example:"Banking Phishing"`
	Text         string `json:"text"`
	Type         string `json:"type" example:"phishing"`
	ExpectedTier string `json:"expected_tier" example:"high"`
}
