package wire

import (
	"smartclub/internal/adaptor"
	"smartclub/internal/data/repository"
	"smartclub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireClub(
	r chi.Router,
	clubHandler *adaptor.ClubHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.GetClubs)
		r.Get("/{id}", clubHandler.GetClubByID)
		r.Get("/{id}/seats", clubHandler.GetClubSeats)
	})
}
