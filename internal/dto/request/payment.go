package request

type VerifyPaymentRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
}

// PaymentWebhookRequest is the body the checkout provider posts. Only
// settlement events carry the reservation fields.
type PaymentWebhookRequest struct {
	Type             string `json:"type" validate:"required"`
	ReservationID    string `json:"reservation_id"`
	PaymentReference string `json:"payment_reference"`
}

// PaymentSettlement holds the fields a settlement event must carry.
type PaymentSettlement struct {
	ReservationID    string `validate:"required"`
	PaymentReference string `validate:"required"`
}

func (r PaymentWebhookRequest) Settlement() PaymentSettlement {
	return PaymentSettlement{
		ReservationID:    r.ReservationID,
		PaymentReference: r.PaymentReference,
	}
}
