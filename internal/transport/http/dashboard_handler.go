package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "bikepulse/internal/errors"
	"bikepulse/internal/middleware"
	"bikepulse/internal/services"
	api "bikepulse/pkg/contracts/api/v1"
	"bikepulse/pkg/contracts/domain"
)

// Response content types for binary endpoints
const (
	ContentTypePNG  = "image/png"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const pngSuffix = ".png"

// DashboardHandler serves the dashboard, single charts and table exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// DashboardRoutes returns the /api/dashboard routes
func (h *DashboardHandler) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetDashboard)
	r.Get("/range", h.GetRange)
	return r
}

// ChartRoutes returns the /api/charts routes.
// {chart} ending in .png selects the image rendering.
func (h *DashboardHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{chart}", h.GetChart)
	return r
}

// ExportRoutes returns the /api/export routes, addressed as {table}.{format}
func (h *DashboardHandler) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{file}", h.Export)
	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	query, err := h.validator.BindRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "building dashboard",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("start", query.Start),
		slog.String("end", query.End),
	)

	dashboard, err := h.service.Build(r.Context(), services.TriggerHTTP, query.Start, query.End)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, api.DashboardResponse{Status: "success", Data: *dashboard})
}

// GetRange handles GET /api/dashboard/range
func (h *DashboardHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, api.RangeResponse{Status: "success", Data: bounds})
}

// GetChart handles GET /api/charts/{chart} and GET /api/charts/{chart}.png
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	asPNG := strings.HasSuffix(name, pngSuffix)
	name = strings.TrimSuffix(name, pngSuffix)

	query, err := h.validator.BindRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := api.ChartRequest{RangeQuery: query, Chart: domain.ChartID(name)}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if !asPNG {
		spec, err := h.service.Chart(r.Context(), req.Chart, req.Start, req.End)
		if err != nil {
			h.errorHandler.HandleError(w, r, mapServiceError(err))
			return
		}
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data":   spec,
		})
		return
	}

	// Render into a buffer so a failed render can still produce a problem response.
	var buf bytes.Buffer
	if err := h.service.RenderChart(r.Context(), &buf, req.Chart, req.Start, req.End); err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", ContentTypePNG)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Export handles GET /api/export/{table}.{format}
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	table, format := file, ""
	if i := strings.LastIndexByte(file, '.'); i >= 0 {
		table, format = file[:i], strings.ToLower(file[i+1:])
	}

	query, err := h.validator.BindRange(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	req := api.ExportRequest{RangeQuery: query, Table: table, Format: format}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, req.Table, req.Format, req.Start, req.End); err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	contentType := ContentTypeCSV
	if req.Format == services.FormatXLSX {
		contentType = ContentTypeXLSX
	}

	h.logger.InfoContext(r.Context(), "table exported",
		slog.String("table", req.Table),
		slog.String("format", req.Format),
		slog.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(req)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportFilename names the download after the table and the requested range
func exportFilename(req api.ExportRequest) string {
	name := "bike-" + req.Table
	if req.Start != "" {
		name += "_from-" + req.Start
	}
	if req.End != "" {
		name += "_to-" + req.End
	}
	return name + "." + req.Format
}

// mapServiceError converts service sentinels to API errors
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidRange):
		return apierrors.ErrValidation("range", err.Error())
	case errors.Is(err, services.ErrUnknownChart):
		return apierrors.NotFoundError("chart")
	case errors.Is(err, services.ErrUnknownTable):
		return apierrors.NotFoundError("table")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrUnsupportedChart), errors.Is(err, services.ErrNotEnoughData):
		return apierrors.UnprocessableError(err.Error())
	case errors.Is(err, services.ErrServiceUnavailable):
		return apierrors.NewWithDetails(
			http.StatusServiceUnavailable,
			apierrors.CodeServiceUnavailable,
			"Rental data is not available",
			err.Error(),
		)
	default:
		return err
	}
}
