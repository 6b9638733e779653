// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyActorID ctxKey = "actor_id"
	keyAdmin   ctxKey = "admin"
)

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithActor annotates context with the authenticated token name
func WithActor(ctx context.Context, actorID string) context.Context {
	if actorID != "" {
		ctx = context.WithValue(ctx, keyActorID, actorID)
	}
	return ctx
}

// WithAdmin marks the context as authenticated with the operator token
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, keyAdmin, true)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ActorID returns the token name on the context if present
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(keyActorID).(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the context was authenticated with the operator token
func IsAdmin(ctx context.Context) bool {
	v, ok := ctx.Value(keyAdmin).(bool)
	return ok && v
}
