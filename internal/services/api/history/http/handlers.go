// Package http provides http transport for history
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"phishbowl/internal/modkit/httpkit"
	perr "phishbowl/internal/platform/errors"
	svc "phishbowl/internal/services/api/history/service"
)

// Register mounts history endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// latest summaries, newest first
	httpkit.Get(r, "/recent", h.recent)

	// tier counts, average score, top categories
	httpkit.Get(r, "/stats", h.stats)
}

// RegisterAdmin mounts the purge endpoint; callers wrap it in auth
func RegisterAdmin(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Delete(r, "/", h.purge)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /history/recent History historyRecent
// @Summary Latest analysis summaries
// @Tags History
// @Produce json
// @Param limit query int false "Max rows (default 50, cap 200)"
// @Success 200 {array} domain.SummaryRow "ok"
// @Router /history/recent [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, perr.InvalidArgf("limit must be an integer")
		}
		limit = n
	}
	return h.svc.Recent(r.Context(), limit)
}

// swagger:route GET /history/stats History historyStats
// @Summary Aggregate stats over recent analyses
// @Tags History
// @Produce json
// @Param days query int false "Window in days (default 7, cap 90)"
// @Success 200 {object} domain.StatsOut "ok"
// @Router /history/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, perr.InvalidArgf("days must be an integer")
		}
		days = n
	}
	return h.svc.Stats(r.Context(), days)
}

// swagger:route DELETE /history History historyPurge
// @Summary Purge summaries older than a cutoff (operator token required)
// @Tags History
// @Produce json
// @Param before query string true "RFC3339 cutoff"
// @Success 200 {object} domain.PurgeOut "ok"
// @Router /history [delete]
func (h *handlers) purge(r *stdhttp.Request) (any, error) {
	v := r.URL.Query().Get("before")
	if v == "" {
		return nil, perr.InvalidArgf("before is required (RFC3339)")
	}
	before, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, perr.InvalidArgf("before must be RFC3339")
	}
	return h.svc.Purge(r.Context(), before)
}
