package domain

import "context"

// ServicePort is consumed by handlers
type ServicePort interface {
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOut, error)
	Examples() []Example
}
