package adaptor

import (
	"errors"
	"net/http"

	"smartclub/internal/dto/response"
	"smartclub/internal/usecase"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Club    *ClubHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Club:    NewClubHandler(service.Club, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// handleServiceError maps usecase errors onto the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &conflict):
		log.Info(operation+" failed - conflict", zap.Int("conflicts", len(conflict.Conflicts)))
		utils.ResponseConflict(w, usecase.ErrConflict.Error(), map[string]any{
			"conflicts": response.ReservationsToResponse(conflict.Conflicts),
		})

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidSignature):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrAccountDisabled):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrClubNotFound),
		errors.Is(err, usecase.ErrSeatNotFound),
		errors.Is(err, usecase.ErrReservationNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrPhoneTaken),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrConcurrentUpdate):
		log.Warn(operation+" failed - state conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrClubBusy):
		log.Warn(operation+" failed - club busy", zap.Error(err))
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, err.Error(), nil, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// currentUserID returns the identity set by the auth middleware, or "".
func currentUserID(r *http.Request) string {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return ""
	}
	return userID.String()
}
