package response

import "smartclub/internal/data/entity"

type PaymentVerifyResponse struct {
	Paid        bool                `json:"paid"`
	Reservation ReservationResponse `json:"reservation"`
}

func PaymentVerifyToResponse(res *entity.Reservation) PaymentVerifyResponse {
	return PaymentVerifyResponse{
		Paid:        res.Status == entity.ReservationStatusActive && res.PaymentReference != nil,
		Reservation: ReservationToResponse(res),
	}
}
