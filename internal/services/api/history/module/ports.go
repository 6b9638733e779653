package module

import (
	"phishbowl/internal/services/api/history/domain"
)

// Ports exposed by the history module. The analyze module records
// summaries through Recorder
type Ports struct {
	Recorder domain.RecorderPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
