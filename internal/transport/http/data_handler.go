package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"cargocli/internal/dataset"
	apierrors "cargocli/internal/errors"
	custommw "cargocli/internal/middleware"
	"cargocli/pkg/contracts/domain"
)

// DataHandler handles dataset HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service      DataServiceInterface
	inputDir     string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *custommw.QueryParamValidator
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, inputDir string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		inputDir:     inputDir,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		query:        custommw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dataset routes with proper Chi patterns
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListDatasets)
	r.Post("/load", h.LoadInputDirectory)
	r.Post("/export", h.Export)
	r.Get("/rollups", h.CombinedRollups)

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Delete("/", h.RemoveDataset)
		r.Get("/rows", h.GetRows)
		r.Get("/rollups", h.GetRollups)
		r.With(custommw.ContentTypeValidator("application/json")).Put("/rows", h.EditRow)
	})

	return r
}

// DatasetCtx middleware validates the dataset id parameter
func (h *DataHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "datasetID")
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("datasetID", "Dataset id is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedStatuses enumerates the status query values in taxonomy order.
var allowedStatuses = []string{
	string(domain.StatusCompleted),
	string(domain.StatusInProgress),
	string(domain.StatusNotStarted),
}

// parseFilter builds a row filter from query parameters. An unknown status
// value is a validation error (already written to the response); everything
// else passes through verbatim.
func (h *DataHandler) parseFilter(w http.ResponseWriter, r *http.Request) (dataset.Filter, bool) {
	f := dataset.Filter{
		Container: r.URL.Query().Get("container"),
		Factory:   r.URL.Query().Get("factory"),
		Search:    r.URL.Query().Get("search"),
	}

	status, ok := h.query.ValidateEnum(w, r, "status", allowedStatuses, "")
	if !ok {
		return f, false
	}
	f.Status = domain.StatusCategory(status)
	return f, true
}

// ListDatasets handles GET /api/datasets
func (h *DataHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.service.Datasets()

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   datasets,
		"count":  len(datasets),
	})
}

// LoadInputDirectory handles POST /api/datasets/load, loading every
// workbook in the configured input directory.
func (h *DataHandler) LoadInputDirectory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "loading input directory",
		slog.String("request_id", reqID),
		slog.String("dir", h.inputDir))

	loaded, err := h.service.LoadDirectory(r.Context(), h.inputDir)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load input directory",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   loaded,
		"count":  len(loaded),
	})
}

// GetRows handles GET /api/datasets/{datasetID}/rows
func (h *DataHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	limit, ok := h.query.ValidateInt(w, r, "limit", 0, 1_000_000, 0)
	if !ok {
		return
	}

	rows, err := h.service.Rows(chi.URLParam(r, "datasetID"), f)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	total := len(rows)
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
		"total":  total,
	})
}

// GetRollups handles GET /api/datasets/{datasetID}/rollups
func (h *DataHandler) GetRollups(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	set, err := h.service.Rollups(chi.URLParam(r, "datasetID"), f)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   set,
	})
}

// CombinedRollups handles GET /api/datasets/rollups, aggregating over
// every loaded dataset.
func (h *DataHandler) CombinedRollups(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.CombinedRollups(f),
	})
}

// EditRow handles PUT /api/datasets/{datasetID}/rows. The body is the full
// edited row snapshot; matching against the stored rows happens by row
// identity, not index.
func (h *DataHandler) EditRow(w http.ResponseWriter, r *http.Request) {
	var edited domain.NormalizedRow
	if err := render.DecodeJSON(r.Body, &edited); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	id := chi.URLParam(r, "datasetID")
	idx, err := h.service.ApplyEdit(r.Context(), id, edited)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"matched":   idx != dataset.NotFound,
		"row_index": idx,
	})
}

// RemoveDataset handles DELETE /api/datasets/{datasetID}
func (h *DataHandler) RemoveDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	if err := h.service.RemoveDataset(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"id":     id,
	})
}

// Export handles POST /api/datasets/export, writing the full report set.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	result, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}
