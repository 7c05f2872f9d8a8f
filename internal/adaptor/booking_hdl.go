package adaptor

import (
	"encoding/json"
	"net/http"

	"smartclub/internal/dto/request"
	"smartclub/internal/usecase"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Availability handles POST /api/booking/availability (public). Without
// seat_ids it returns the club snapshot, with seat_ids the conflict list.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	var req request.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if len(req.SeatIDs) > 0 {
		result, err := h.service.CheckConflicts(r.Context(), &req)
		if err != nil {
			handleServiceError(w, h.log, err, "check conflicts")
			return
		}
		utils.ResponseSuccess(w, "success", result)
		return
	}

	snapshot, err := h.service.Availability(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", snapshot)
}

// Reserve handles POST /api/booking/reserve (protected)
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Reserve(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve")
		return
	}

	utils.ResponseCreated(w, "Reservation created", reservation)
}

// Cancel handles POST /api/booking/cancel (protected)
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Cancel(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled", reservation)
}

// History handles GET /api/booking/history?scope=all|active|past (protected)
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.HistoryRequest{Scope: request.HistoryScope(r.URL.Query().Get("scope"))}

	history, err := h.service.History(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}

// ClearPast handles POST /api/booking/clear-past (protected)
func (h *BookingHandler) ClearPast(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.PurgePast(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "clear past reservations")
		return
	}

	utils.ResponseSuccess(w, "Past reservations cleared", result)
}

// ClearAllPast handles POST /api/admin/reservations/clear-past (admin)
func (h *BookingHandler) ClearAllPast(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PurgeAllPast(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "clear all past reservations")
		return
	}

	utils.ResponseSuccess(w, "Past reservations cleared", result)
}
