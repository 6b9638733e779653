package httpkit

import (
	"net/http"

	perrs "phishbowl/internal/platform/errors"
	pnet "phishbowl/internal/platform/net"
)

// RequireAdmin is middleware that rejects requests whose context was not
// authenticated with the operator token
func RequireAdmin(write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pnet.IsAdmin(r.Context()) {
				err := perrs.Forbiddenf("operator token required")
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
