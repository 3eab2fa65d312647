// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyOwner  ctxKey = "owner"
	keyHandle ctxKey = "handle"
)

// WithRequest annotates context with the request id and the owner key when known
func WithRequest(ctx context.Context, reqID, owner string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if owner != "" {
		ctx = context.WithValue(ctx, keyOwner, owner)
	}
	return ctx
}

// WithCaller annotates context with the authenticated caller
// owner is the stable account key and handle is the x username it signed in with
func WithCaller(ctx context.Context, owner, handle string) context.Context {
	if owner != "" {
		ctx = context.WithValue(ctx, keyOwner, owner)
	}
	if handle != "" {
		ctx = context.WithValue(ctx, keyHandle, handle)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// Owner returns the caller owner key on the context if present
func Owner(ctx context.Context) string {
	if v, ok := ctx.Value(keyOwner).(string); ok {
		return v
	}
	return ""
}

// Handle returns the caller x username on the context if present
func Handle(ctx context.Context) string {
	if v, ok := ctx.Value(keyHandle).(string); ok {
		return v
	}
	return ""
}
