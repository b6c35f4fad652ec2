package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"limo-booking/internal/dto/request"
	"limo-booking/internal/usecase"
	"limo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	debug   bool
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, debug bool, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		debug:   debug,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Create handles POST /api/bookings (public)
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	req.Normalize()
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking request received", booking)
}

// List handles GET /api/bookings (public and mirrored admin surface)
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := request.ListBookingsQuery{
		Page:   utils.ParseInt(query.Get("page"), 1),
		Limit:  utils.ParseInt(query.Get("limit"), 10),
		Status: strings.TrimSpace(query.Get("status")),
		Date:   strings.TrimSpace(query.Get("date")),
		Search: strings.TrimSpace(query.Get("search")),
		Cursor: strings.TrimSpace(query.Get("cursor")),
	}

	result, err := h.service.List(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Update handles PUT /api/bookings/{id}
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	updatedBy, _ := utils.GetAdminFromContext(r.Context())

	booking, err := h.service.Update(r.Context(), id, &req, updatedBy)
	if err != nil {
		h.handleServiceError(w, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// UpdateStatus handles PATCH /api/bookings/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	updatedBy, _ := utils.GetAdminFromContext(r.Context())

	booking, err := h.service.UpdateStatus(r.Context(), id, req.Status, updatedBy)
	if err != nil {
		h.handleServiceError(w, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

// UpdateNotes handles PATCH /api/admin/bookings/{id}/notes (admin only)
func (h *BookingHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	updatedBy, _ := utils.GetAdminFromContext(r.Context())

	booking, err := h.service.UpdateNotes(r.Context(), id, req.AdminNotes, updatedBy)
	if err != nil {
		h.handleServiceError(w, err, "update booking notes")
		return
	}

	utils.ResponseSuccess(w, "Booking notes updated", booking)
}

// Delete handles DELETE /api/bookings/{id} (admin only)
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}

// Respond handles POST /api/admin/bookings/{id}/respond (admin only)
func (h *BookingHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	var req request.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	sentBy, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.Respond(r.Context(), id, &req, sentBy)
	if err != nil {
		h.handleServiceError(w, err, "respond to client")
		return
	}

	utils.ResponseSuccess(w, "Response sent", booking)
}

// Stats handles GET /api/bookings/stats/overview
func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "booking stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// Dashboard handles GET /api/admin/stats/dashboard (admin only)
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "dashboard stats")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}

// handleServiceError maps service errors onto the HTTP taxonomy.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		h.log.Warn(operation+" failed - bad input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		if h.debug {
			utils.ResponseInternalError(w, errMsg)
			return
		}
		utils.ResponseInternalError(w, "Internal server error")
	}
}
