package wire

import (
	"smartclub/internal/adaptor"
	"smartclub/internal/data/repository"
	"smartclub/pkg/middleware"
	"smartclub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Signed by the checkout provider, no session
	r.Post("/api/webhook/payment", paymentHandler.Webhook)

	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/payment/verify", paymentHandler.Verify)
}
