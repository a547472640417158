// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API on top of the service
// layer. Handlers decode and size-check requests, call one service
// operation, and map apperr kinds to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errorResponse is the envelope of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeRaw writes an already encoded JSON body, as read from the cache.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateSlug, apperr.KindHasDependents:
		return http.StatusConflict
	case apperr.KindInvalidParent, apperr.KindInvalidStatus:
		return http.StatusUnprocessableEntity
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and error envelope. Unclassified errors
// are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: string(kind), Message: apperr.Message(err)}})
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation("request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		default:
			return apperr.Wrap(apperr.KindValidation, err, "malformed JSON body")
		}
	}
	return nil
}

// urlUUID parses the named chi URL parameter as a UUID.
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("%s %q is not a valid id", name, raw)
	}
	return id, nil
}

// parseIDs converts string ids from a request body.
func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, apperr.Validation("%s contains an invalid id %q", field, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryInt reads a positive integer query parameter. Absent means 0, which
// the service replaces with its default.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("%s must be a positive integer", name)
	}
	return n, nil
}

// queryBool reads an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be true or false", name)
	}
	return &b, nil
}

// actorFrom returns the signed-in caller, or nil for anonymous requests.
func actorFrom(r *http.Request) *service.Actor {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	return &service.Actor{UserID: sess.UserID, Role: sess.Role}
}
