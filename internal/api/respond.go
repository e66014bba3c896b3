// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/logging"
	"github.com/ecomd/ecomd/internal/models"
)

// sanitizeLogValue strips control characters so request-supplied
// strings cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// writeJSON marshals v and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondSuccess writes a success envelope carrying payload.
func respondSuccess(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, &models.Envelope{Status: "success", Payload: payload})
}

// respondError writes an error envelope with a human-readable message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &models.Envelope{Status: "error", Message: message})
}

// respondManagerError maps a manager error onto the HTTP contract:
// validation errors are 400 with the validation message, absent records
// are 404, and anything else is a logged 500 with a generic body.
func respondManagerError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case models.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		msg := notFoundMessage
		if msg == "" {
			msg = "not found"
		}
		respondError(w, http.StatusNotFound, msg)
	default:
		logging.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// generateETag hashes the body with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// parseIntParam parses an integer query value, falling back on the
// default for empty or malformed input.
func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// pathID parses a positive int64 path segment. A non-numeric or
// non-positive value is a validation error.
func pathID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, models.NewValidationError("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
