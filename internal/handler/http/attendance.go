package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	GetMyAttendance(w http.ResponseWriter, r *http.Request)

	CreateCorrection(w http.ResponseWriter, r *http.Request)
	ApproveCorrection(w http.ResponseWriter, r *http.Request)
	RejectCorrection(w http.ResponseWriter, r *http.Request)
	GetCorrection(w http.ResponseWriter, r *http.Request)
	GetMyCorrections(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	filter := attendance.MyAttendanceFilter{
		StartDate: optionalQueryParam(r, "start_date"),
		EndDate:   optionalQueryParam(r, "end_date"),
		Status:    optionalQueryParam(r, "status"),
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
	}

	list, err := h.attendanceService.ListMyAttendance(r.Context(), p, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// CreateCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateCorrection(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.SubmitCorrectionRequest
	if err := response.DecodeJSON(r, &req, false); err != nil {
		slog.Debug("CreateCorrection decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.attendanceService.SubmitCorrection(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance correction submitted successfully", created)
}

// ApproveCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveCorrection(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.attendanceService.ApproveCorrection, "Attendance correction approved successfully")
}

// RejectCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) RejectCorrection(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.attendanceService.RejectCorrection, "Attendance correction rejected successfully")
}

type correctionReviewFunc func(ctx context.Context, p user.Principal, id string, req attendance.ReviewCorrectionRequest) (attendance.CorrectionResponse, error)

func (h *attendanceHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn correctionReviewFunc, message string) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.ReviewCorrectionRequest
	if err := response.DecodeJSON(r, &req, true); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := fn(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, updated)
}

// GetCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetCorrection(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	correction, err := h.attendanceService.GetCorrection(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, correction)
}

// GetMyCorrections implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyCorrections(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.attendanceService.ListMyCorrections(r.Context(), p, correctionFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// ListCorrections implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.attendanceService.ListCorrectionsForReview(r.Context(), p, correctionFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

func correctionFilterFromQuery(r *http.Request) attendance.CorrectionFilter {
	return attendance.CorrectionFilter{
		Status:    optionalQueryParam(r, "status"),
		StartDate: optionalQueryParam(r, "start_date"),
		EndDate:   optionalQueryParam(r, "end_date"),
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
}
