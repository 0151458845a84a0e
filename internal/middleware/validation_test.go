package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "cargocli/internal/errors"
)

func newValidationMiddleware() *ValidationMiddleware {
	logger := slog.Default()
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

func validationOKHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"get passes without body checks", http.MethodGet, "", http.StatusOK},
		{"valid json body", http.MethodPost, `{"no":"1"}`, http.StatusOK},
		{"invalid json body", http.MethodPost, `{not json`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "", http.StatusOK},
	}

	m := newValidationMiddleware()
	handler := m.ValidateRequest(validationOKHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, "/", nil)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestValidateRequestRestoresBody(t *testing.T) {
	m := newValidationMiddleware()

	var seen string
	handler := m.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"no":"1"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"no":"1"}`, seen)
}

func TestValidateRequestBodyTooLarge(t *testing.T) {
	m := newValidationMiddleware()
	m.maxBodySize = 8
	handler := m.ValidateRequest(validationOKHandler())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"no":"way too big"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidateStruct(t *testing.T) {
	type editRequest struct {
		Name  string `json:"name" validate:"required"`
		Count int    `json:"count" validate:"gte=0,lte=100"`
	}

	m := newValidationMiddleware()

	require.NoError(t, m.ValidateStruct(editRequest{Name: "box", Count: 5}))

	err := m.ValidateStruct(editRequest{Count: 500})
	require.Error(t, err)

	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	fields := apiErr.Details.([]apierrors.ValidationError)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "name is required", fields[0].Message)
	assert.Equal(t, "count must be less than or equal to 100", fields[1].Message)
}

func TestContentTypeValidator(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"matching content type", http.MethodPut, "application/json", http.StatusOK},
		{"with charset suffix", http.MethodPut, "application/json; charset=utf-8", http.StatusOK},
		{"missing content type", http.MethodPut, "", http.StatusBadRequest},
		{"wrong content type", http.MethodPut, "text/plain", http.StatusUnsupportedMediaType},
		{"get skips the check", http.MethodGet, "", http.StatusOK},
		{"delete skips the check", http.MethodDelete, "", http.StatusOK},
	}

	handler := ContentTypeValidator("application/json")(validationOKHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestValidateInt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
		ok    bool
	}{
		{"absent uses default", "", 10, true},
		{"valid value", "limit=25", 25, true},
		{"not a number", "limit=abc", 0, false},
		{"below minimum", "limit=-1", 0, false},
		{"above maximum", "limit=1000", 0, false},
	}

	logger := slog.Default()
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			rec := httptest.NewRecorder()

			got, ok := v.ValidateInt(rec, req, "limit", 0, 100, 10)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"Completed", "InProgress", "NotStarted"}

	logger := slog.Default()
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	req := httptest.NewRequest(http.MethodGet, "/?status=InProgress", nil)
	got, ok := v.ValidateEnum(httptest.NewRecorder(), req, "status", allowed, "")
	assert.True(t, ok)
	assert.Equal(t, "InProgress", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, ok = v.ValidateEnum(httptest.NewRecorder(), req, "status", allowed, "")
	assert.True(t, ok)
	assert.Empty(t, got)

	req = httptest.NewRequest(http.MethodGet, "/?status=Done", nil)
	rec := httptest.NewRecorder()
	_, ok = v.ValidateEnum(rec, req, "status", allowed, "")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
