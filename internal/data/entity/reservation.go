package entity

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type Reservation struct {
	ID               string            `db:"id"`
	ClubID           string            `db:"club_id"`
	UserID           string            `db:"user_id"`
	SeatIDs          []string          `db:"seat_ids"`
	Start            time.Time         `db:"start_at"`
	End              time.Time         `db:"end_at"`
	DurationMinutes  *int              `db:"duration_minutes"`
	PackageID        *string           `db:"package_id"`
	TotalPrice       *int              `db:"total_price"`
	CreatedAt        time.Time         `db:"created_at"`
	Status           ReservationStatus `db:"status"`
	CancelledAt      *time.Time        `db:"cancelled_at"`
	CancelledBy      *string           `db:"cancelled_by"`
	PaymentReference *string           `db:"payment_reference"`
}

// Overlaps reports whether [start, end) intersects the reservation window
// under half-open semantics. Empty windows overlap nothing.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(r.Start, r.End, start, end)
}

// HasAnySeat reports whether the reservation holds any of seatIDs.
func (r *Reservation) HasAnySeat(seatIDs []string) bool {
	for _, held := range r.SeatIDs {
		for _, id := range seatIDs {
			if held == id {
				return true
			}
		}
	}
	return false
}

// IntervalsOverlap implements [a,b) ∩ [c,d) ≠ ∅, i.e. a < d && c < b, with
// degenerate intervals never overlapping.
func IntervalsOverlap(a, b, c, d time.Time) bool {
	if !a.Before(b) || !c.Before(d) {
		return false
	}
	return a.Before(d) && c.Before(b)
}
