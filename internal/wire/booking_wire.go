package wire

import (
	"smartclub/internal/adaptor"
	"smartclub/internal/data/repository"
	"smartclub/pkg/middleware"
	"smartclub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/booking/availability", bookingHandler.Availability)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/booking/reserve", bookingHandler.Reserve)
		r.Post("/api/booking/cancel", bookingHandler.Cancel)
		r.Get("/api/booking/history", bookingHandler.History)
		r.Post("/api/booking/clear-past", bookingHandler.ClearPast)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/clear-past", bookingHandler.ClearAllPast)
	})
}
