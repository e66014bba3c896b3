// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package middleware holds the HandlerFunc-style HTTP middleware shared
// by the API routes: request identification, Prometheus
// instrumentation, and gzip compression. The api package bridges these
// onto chi's Use() signature.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ecomd/ecomd/internal/logging"
)

type contextKey string

// RequestIDKey is the context key under which the request ID is stored.
const RequestIDKey contextKey = "request_id"

// RequestID tags each request with an ID, echoes it in the
// X-Request-ID response header, and seeds the logging context with
// request and correlation IDs. An upstream proxy's X-Request-ID is
// honored when present.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.WithRequestID(ctx, requestID)
		ctx = logging.WithCorrelationID(ctx, uuid.New().String())

		next(w, r.WithContext(ctx))
	}
}

// GetRequestID extracts the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
