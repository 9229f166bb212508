package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"quiz_week/internal/api/middleware"
	"quiz_week/internal/app/service"
	"quiz_week/internal/common"

	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(rs *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/sets/{setNumber}", h.setReport)
	r.Get("/sets/{setNumber}/export", h.exportCSV)
}

func parseReportParams(r *http.Request) (int, service.ReportFilter, error) {
	setNumber, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil || setNumber < 1 {
		return 0, service.ReportFilter{}, common.Errorf("setNumber must be a positive integer: %w", common.ErrBadRequest)
	}
	filter := service.ReportFilter{
		College: r.URL.Query().Get("college"),
		Email:   r.URL.Query().Get("email"),
	}
	return setNumber, filter, nil
}

func (h *ReportHandler) setReport(w http.ResponseWriter, r *http.Request) {
	setNumber, filter, err := parseReportParams(r)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	rows, err := h.reportService.SetReport(r.Context(), setNumber, filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"set_number": setNumber,
		"rows":       rows,
	})
}

func (h *ReportHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	setNumber, filter, err := parseReportParams(r)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// Render the full report before touching the response so a failure
	// comes back as a JSON error, not a half-written download.
	var buf bytes.Buffer
	if err := h.reportService.ExportCSV(r.Context(), &buf, setNumber, filter); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename(setNumber, filter)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
