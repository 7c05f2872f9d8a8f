package queue

import "time"

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationActivated = "reservation.activated"
)

// ReservationEvent is the JSON body published for every lifecycle change.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	ClubID        string    `json:"club_id"`
	UserID        string    `json:"user_id"`
	SeatIDs       []string  `json:"seat_ids"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	TotalPrice    *int      `json:"total_price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
