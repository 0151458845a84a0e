package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("file truncated")
	err := NewParsingError("failed to decode workbook", cause)

	assert.Equal(t, "[PARSING] failed to decode workbook: file truncated", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewNotFoundError("dataset missing", nil)
	assert.Equal(t, "[NOT_FOUND] dataset missing", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewStorageError("write failed", nil).
		WithContext("path", "/tmp/out.csv").
		WithContext("attempt", 2)

	assert.Equal(t, "/tmp/out.csv", err.Context["path"])
	assert.Equal(t, 2, err.Context["attempt"])
}

func TestAPIErrorRender(t *testing.T) {
	apiErr := DatasetNotFoundError("abc-123")
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "DATASET_NOT_FOUND", apiErr.ErrorCode)
	assert.Equal(t, "abc-123", apiErr.Details)
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad field", "/api/edit").
		WithExtension("trace_id", "t-1")

	raw, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "/errors/validation", got["type"])
	assert.Equal(t, float64(400), got["status"])
	assert.Equal(t, "t-1", got["trace_id"])
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", NewValidationError("bad input", nil), http.StatusBadRequest, TypeValidation},
		{"not found", NewNotFoundError("gone", nil), http.StatusNotFound, TypeNotFound},
		{"parsing", NewParsingError("bad sheet", nil), http.StatusUnprocessableEntity, TypeSourceMalformed},
		{"network", NewNetworkError("upstream down", nil), http.StatusBadGateway, TypeServiceDown},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
			pd := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
		})
	}
}

func TestErrorHandlerMapsAPIErrors(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodPost, "/api/datasets/x/edit", nil)

	pd := h.ErrorToProblem(ErrDatasetNotFound, r)
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, TypeDatasetNotFound, pd.Type)
	assert.Equal(t, "DATASET_NOT_FOUND", pd.Extensions["error_code"])
}

func TestErrorHandlerHandleErrorWritesProblemJSON(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodGet, "/api/datasets/missing", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, TypeDatasetNotFound, got["type"])
}
