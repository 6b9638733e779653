package middleware

import (
	"net/http"

	pnet "phishbowl/internal/platform/net"
)

// AuthPort validates API tokens. The api service implements it over the
// configured operator token
type AuthPort interface {
	// Parse returns the token name and whether it grants operator rights
	Parse(r *http.Request) (actorID string, admin bool, err error)
}

// Auth is a no-op until wired. It uses the port when provided
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			actor, admin, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithActor(r.Context(), actor)
			if admin {
				ctx = pnet.WithAdmin(ctx)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
