package handler

// RESPONSE HELPERS:
// Every handler writes through writeJSON / writeError so the API has one
// content type and one error shape:
//
//	{"error": "Post not found", "code": "not_found"}
//
// "error" is the human-readable message the front end shows as-is; "code"
// is stable and meant for programs.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/apperror"
)

// maxBodyBytes caps request bodies; posts are plain text.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"` // Human-readable description
	Code  string `json:"code"`  // Machine-readable error type (e.g., "not_found")
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; the body goes last.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and writes it.
//
// The service layer never sees status codes. errors.Is walks the wrap
// chain, so fmt.Errorf("...: %w", appErr) still maps correctly.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status, code := http.StatusInternalServerError, "internal_error"

		switch {
		case errors.Is(err, apperror.ErrInvalidArgument):
			status, code = http.StatusBadRequest, "invalid_argument"
		case errors.Is(err, apperror.ErrAlreadyExists):
			status, code = http.StatusBadRequest, "already_exists"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status, code = http.StatusUnauthorized, "unauthenticated"
		case errors.Is(err, apperror.ErrForbidden):
			status, code = http.StatusForbidden, "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status, code = http.StatusNotFound, "not_found"
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message, Code: code})
		return
	}

	// Unknown error: log it, and never echo internals to the client.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An internal error occurred",
		Code:  "internal_error",
	})
}

// decodeJSON reads the request body into dst.
//
// BODY RULES:
//   - The body is capped at maxBodyBytes with http.MaxBytesReader; a larger
//     body fails to decode like any other bad JSON.
//   - An empty body (io.EOF) decodes as the zero value, so a bare
//     POST /api/posts reports "Title and content are required" rather
//     than a JSON error.
//   - Anything else that fails to parse is 400 "Invalid JSON body".
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.InvalidArgument("", "Invalid JSON body")
	}
	return nil
}

// postIDParam parses the {id} route parameter. A value that is not an
// integer cannot name a post, so it is reported as not found.
func postIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NotFound("Post", raw)
	}
	return id, nil
}

// pathParam returns a route parameter decoded exactly once.
//
// WHY CHECK RawPath?
// chi matches against r.URL.RawPath when it is set and r.URL.Path
// otherwise. net/url only sets RawPath when the escaped form differs from
// the default encoding (e.g. "%2F" inside a segment). In the common case
// the parameter is already decoded, and unescaping it again would turn a
// literal "%41" into "A".
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
