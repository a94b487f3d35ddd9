package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/blog-api/internal/apperror"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid argument", apperror.InvalidArgument("title", "Title and content are required"), http.StatusBadRequest, "invalid_argument", "Title and content are required"},
		{"already exists", apperror.AlreadyExists("email", "Email already registered"), http.StatusBadRequest, "already_exists", "Email already registered"},
		{"unauthenticated", apperror.Unauthenticated("Unauthorized"), http.StatusUnauthorized, "unauthenticated", "Unauthorized"},
		{"forbidden", apperror.Forbidden("You can only edit your own posts"), http.StatusForbidden, "forbidden", "You can only edit your own posts"},
		{"not found", apperror.NotFound("Post", "9"), http.StatusNotFound, "not_found", "Post not found"},
		{"wrapped", fmt.Errorf("updating post: %w", apperror.NotFound("Post", "9")), http.StatusNotFound, "not_found", "Post not found"},
		{"unknown error hides internals", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error", "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, testLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"valid", `{"title":"Hi"}`, "Hi", false},
		{"empty body decodes as zero value", ``, "", false},
		{"malformed", `{"title":`, "", true},
		{"wrong type", `{"title":3}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var got payload
			err := decodeJSON(httptest.NewRecorder(), req, &got)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	big := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var got struct{ Title string }
	err := decodeJSON(httptest.NewRecorder(), req, &got)

	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

// withURLParam attaches a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPostIDParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"3", 3, false},
		{"abc", 0, true},
		{"3.5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)
			id, err := postIDParam(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPathParam_DecodesOnce(t *testing.T) {
	tests := []struct {
		name   string
		target string
		param  string
		want   string
	}{
		{
			name:   "already decoded by net/url",
			target: "/posts/search/%2541",
			param:  "%41",
			want:   "%41",
		},
		{
			name:   "escaped raw path is decoded",
			target: "/posts/search/a%2Fb",
			param:  "a%2Fb",
			want:   "a/b",
		},
		{
			name:   "plain value",
			target: "/posts/search/react",
			param:  "react",
			want:   "react",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, tt.target, nil), "query", tt.param)
			assert.Equal(t, tt.want, pathParam(req, "query"))
		})
	}
}
