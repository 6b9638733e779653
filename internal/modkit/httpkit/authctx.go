package httpkit

import (
	"net/http"
	"strings"

	perrs "phishbowl/internal/platform/errors"
	pnet "phishbowl/internal/platform/net"
)

// Actor returns the authenticated token name from the request context
func Actor(r *http.Request) (string, error) {
	id := pnet.ActorID(r.Context())
	if id == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return id, nil
}

// Admin errors unless the request was authenticated with the operator token
func Admin(r *http.Request) error {
	if !pnet.IsAdmin(r.Context()) {
		return perrs.Forbiddenf("operator token required")
	}
	return nil
}

// MustActor returns the authenticated token name or panics
func MustActor(r *http.Request) string {
	id, err := Actor(r)
	if err != nil {
		panic(err)
	}
	return id
}

// Bearer returns the raw bearer token from the Authorization header
func Bearer(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if strings.TrimSpace(authz) == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// case-insensitive Bearer prefix (don't trim the whole header first)
	const prefix = "bearer "
	if len(authz) < len(prefix) || strings.ToLower(authz[:len(prefix)]) != prefix {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// MustBearer returns the raw bearer token or panics
// only use on routes protected by the auth middleware
func MustBearer(r *http.Request) string {
	raw, err := Bearer(r)
	if err != nil {
		panic(err)
	}
	return raw
}
