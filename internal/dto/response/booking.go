package response

import (
	"time"

	"smartclub/internal/data/entity"
)

type ReservationResponse struct {
	ID               string                   `json:"id"`
	ClubID           string                   `json:"club_id"`
	UserID           string                   `json:"user_id"`
	SeatIDs          []string                 `json:"seat_ids"`
	Start            time.Time                `json:"start"`
	End              time.Time                `json:"end"`
	DurationMinutes  *int                     `json:"duration_minutes,omitempty"`
	PackageID        *string                  `json:"package_id,omitempty"`
	TotalPrice       *int                     `json:"total_price,omitempty"`
	Status           entity.ReservationStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	CancelledBy      *string                  `json:"cancelled_by,omitempty"`
	PaymentReference *string                  `json:"payment_reference,omitempty"`
}

type SeatAvailabilityResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsVIP     bool   `json:"is_vip"`
	Order     int    `json:"order"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	ClubID            string                     `json:"club_id"`
	Start             time.Time                  `json:"start"`
	End               time.Time                  `json:"end"`
	TotalSeats        int                        `json:"total_seats"`
	VIPSeats          int                        `json:"vip_seats"`
	AvailableCount    int                        `json:"available_count"`
	AvailableVIPCount int                        `json:"available_vip_count"`
	Seats             []SeatAvailabilityResponse `json:"seats"`
}

type ConflictCheckResponse struct {
	ClubID    string                `json:"club_id"`
	Start     time.Time             `json:"start"`
	End       time.Time             `json:"end"`
	SeatIDs   []string              `json:"seat_ids"`
	Available bool                  `json:"available"`
	Conflicts []ReservationResponse `json:"conflicts"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func ReservationToResponse(res *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               res.ID,
		ClubID:           res.ClubID,
		UserID:           res.UserID,
		SeatIDs:          res.SeatIDs,
		Start:            res.Start,
		End:              res.End,
		DurationMinutes:  res.DurationMinutes,
		PackageID:        res.PackageID,
		TotalPrice:       res.TotalPrice,
		Status:           res.Status,
		CreatedAt:        res.CreatedAt,
		CancelledAt:      res.CancelledAt,
		CancelledBy:      res.CancelledBy,
		PaymentReference: res.PaymentReference,
	}
}

func ReservationsToResponse(list []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, ReservationToResponse(res))
	}
	return out
}

func AvailabilityToResponse(s *entity.AvailabilitySnapshot) AvailabilityResponse {
	resp := AvailabilityResponse{
		ClubID:            s.ClubID,
		Start:             s.Start,
		End:               s.End,
		TotalSeats:        s.TotalSeats,
		VIPSeats:          s.VIPSeats,
		AvailableCount:    s.AvailableCount,
		AvailableVIPCount: s.AvailableVIPCount,
		Seats:             make([]SeatAvailabilityResponse, 0, len(s.Seats)),
	}

	for _, sa := range s.Seats {
		resp.Seats = append(resp.Seats, SeatAvailabilityResponse{
			ID:        sa.Seat.ID,
			Label:     sa.Seat.Label,
			IsVIP:     sa.Seat.IsVIP,
			Order:     sa.Seat.Order,
			Available: sa.Available,
		})
	}

	return resp
}
