// Package http provides http transport for analyze
package http

import (
	stdhttp "net/http"

	"phishbowl/internal/modkit/httpkit"
	"phishbowl/internal/services/api/analyze/domain"
	svc "phishbowl/internal/services/api/analyze/service"
)

// Register mounts analyze endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// run the pipeline over one message
	httpkit.PostJSON[domain.AnalyzeInput](r, "/", h.analyze)

	// curated demonstration messages
	httpkit.Get(r, "/examples", h.examples)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /analyze Analyze analyzeMessage
// @Summary Analyze a message for phishing risk
// @Tags Analyze
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Message"
// @Success 200 {object} domain.AnalyzeOut "ok"
// @Router /analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), in)
}

// swagger:route GET /analyze/examples Analyze analyzeExamples
// @Summary Curated example messages with expected tiers
// @Tags Analyze
// @Produce json
// @Success 200 {array} domain.Example "ok"
// @Router /analyze/examples [get]
func (h *handlers) examples(_ *stdhttp.Request) (any, error) {
	return h.svc.Examples(), nil
}
