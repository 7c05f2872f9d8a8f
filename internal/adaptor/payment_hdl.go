package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"smartclub/internal/dto/request"
	"smartclub/internal/usecase"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the webhook body.
const SignatureHeader = "X-Signature"

const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Verify handles POST /api/payment/verify (protected)
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.Verify(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Webhook handles POST /api/webhook/payment (signed by the provider). The
// body is passed through raw; the service checks the signature before
// decoding it.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	applied, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		handleServiceError(w, h.log, err, "payment webhook")
		return
	}

	utils.ResponseSuccess(w, "received", map[string]bool{"applied": applied})
}
