package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"smartclub/internal/dto/request"
	"smartclub/internal/dto/response"
	"smartclub/pkg/lock"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

// Webhook event types that settle a reservation.
const (
	PaymentEventSucceeded       = "payment.succeeded"
	PaymentEventCheckoutSettled = "checkout.session.completed"
)

type PaymentService interface {
	Verify(ctx context.Context, userID string, req *request.VerifyPaymentRequest) (*response.PaymentVerifyResponse, error)

	// HandleWebhook authenticates the raw payload against signature, then
	// decodes it and activates the reservation it names. It reports whether
	// the event was applied.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error)
}

type paymentService struct {
	reservations ReservationManager
	conflicts    ConflictChecker
	locker       lock.Locker
	secret       []byte
	log          *zap.Logger
}

func NewPaymentService(
	reservations ReservationManager,
	conflicts ConflictChecker,
	locker lock.Locker,
	config *utils.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		reservations: reservations,
		conflicts:    conflicts,
		locker:       locker,
		secret:       []byte(config.Payment.WebhookSecret),
		log:          log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Verify(ctx context.Context, userID string, req *request.VerifyPaymentRequest) (*response.PaymentVerifyResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	res, err := s.reservations.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}

	resp := response.PaymentVerifyToResponse(res)
	return &resp, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error) {
	if !s.validSignature(payload, signature) {
		s.log.Warn("Webhook signature mismatch")
		return false, ErrInvalidSignature
	}

	var req request.PaymentWebhookRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.log.Warn("Webhook body is not JSON", zap.Error(err))
		return false, fmt.Errorf("%w: malformed webhook body", ErrValidation)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return false, validationError(errs)
	}

	// Other events are acknowledged so the provider stops retrying them.
	if req.Type != PaymentEventSucceeded && req.Type != PaymentEventCheckoutSettled {
		s.log.Info("Webhook event ignored", zap.String("type", req.Type))
		return false, nil
	}
	if errs := utils.ValidateStruct(req.Settlement()); len(errs) > 0 {
		return false, validationError(errs)
	}

	pending, err := s.reservations.Get(ctx, req.ReservationID)
	if err != nil {
		return false, err
	}

	release, err := s.locker.Acquire(ctx, lock.ClubKey(pending.ClubID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return false, ErrClubBusy
		}
		return false, fmt.Errorf("acquire club lock: %w", err)
	}
	defer release()

	// Seats of a PENDING reservation are not held, so someone else may have
	// taken them before the payment settled.
	conflicts, err := s.conflicts.FindConflicts(ctx, pending.ClubID, pending.SeatIDs, pending.Start, pending.End)
	if err != nil {
		return false, err
	}
	for _, c := range conflicts {
		if c.ID != pending.ID {
			s.log.Warn("Payment settled for reservation whose seats were taken",
				zap.String("reservation_id", pending.ID),
				zap.String("conflicting_id", c.ID),
				zap.String("payment_reference", req.PaymentReference),
			)
			return false, &ConflictError{Conflicts: conflicts}
		}
	}

	res, err := s.reservations.Activate(ctx, req.ReservationID, req.PaymentReference)
	if err != nil {
		return false, err
	}

	s.log.Info("Payment confirmed",
		zap.String("reservation_id", res.ID),
		zap.String("payment_reference", req.PaymentReference),
	)
	return true, nil
}

// validSignature checks a hex HMAC-SHA256 of payload. An unset secret
// rejects every webhook.
func (s *paymentService) validSignature(payload []byte, signature string) bool {
	if len(s.secret) == 0 || signature == "" {
		return false
	}

	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// SignWebhookPayload returns the signature HandleWebhook expects for payload.
func SignWebhookPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
