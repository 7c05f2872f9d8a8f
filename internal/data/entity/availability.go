package entity

import "time"

type SeatAvailability struct {
	Seat      *Seat
	Available bool
}

// AvailabilitySnapshot is the occupancy of a club's seats over one window.
type AvailabilitySnapshot struct {
	ClubID            string
	Start             time.Time
	End               time.Time
	TotalSeats        int
	VIPSeats          int
	AvailableCount    int
	AvailableVIPCount int
	Seats             []SeatAvailability
}
