package adaptor

import (
	"net/http"

	"smartclub/internal/dto/request"
	"smartclub/internal/usecase"
	"smartclub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ClubHandler struct {
	service usecase.ClubService
	log     *zap.Logger
}

func NewClubHandler(service usecase.ClubService, log *zap.Logger) *ClubHandler {
	return &ClubHandler{
		service: service,
		log:     log.With(zap.String("handler", "club")),
	}
}

// GetClubs handles GET /api/clubs?page=1&per_page=10
func (h *ClubHandler) GetClubs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	clubs, err := h.service.GetClubs(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get clubs")
		return
	}

	utils.ResponseSuccess(w, "success", clubs)
}

// GetClubByID handles GET /api/clubs/{id}
func (h *ClubHandler) GetClubByID(w http.ResponseWriter, r *http.Request) {
	club, err := h.service.GetClubByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get club")
		return
	}

	utils.ResponseSuccess(w, "success", club)
}

// GetClubSeats handles GET /api/clubs/{id}/seats
func (h *ClubHandler) GetClubSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.GetClubSeats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get club seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}
