package request

import "time"

type AvailabilityRequest struct {
	ClubID  string    `json:"club_id" validate:"required"`
	Start   time.Time `json:"start" validate:"required"`
	End     time.Time `json:"end" validate:"required,gtfield=Start"`
	SeatIDs []string  `json:"seat_ids,omitempty" validate:"omitempty,dive,required"`
}

type ReserveRequest struct {
	ClubID          string    `json:"club_id" validate:"required"`
	SeatIDs         []string  `json:"seat_ids" validate:"required,min=1,dive,required"`
	Start           time.Time `json:"start" validate:"required"`
	End             time.Time `json:"end" validate:"required,gtfield=Start"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" validate:"omitempty,min=1"`
	PackageID       *string   `json:"package_id,omitempty"`
	TotalPrice      *int      `json:"total_price,omitempty" validate:"omitempty,min=0"`
}

type CancelRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
}

type HistoryScope string

const (
	HistoryScopeAll    HistoryScope = "all"
	HistoryScopeActive HistoryScope = "active"
	HistoryScopePast   HistoryScope = "past"
)

type HistoryRequest struct {
	Scope HistoryScope `json:"scope" validate:"oneof=all active past"`
}
