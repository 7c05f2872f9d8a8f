package usecase

import (
	"context"
	"fmt"
	"time"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"

	"go.uber.org/zap"
)

type AvailabilityEngine interface {
	Snapshot(ctx context.Context, clubID string, start, end time.Time) (*entity.AvailabilitySnapshot, error)
}

type ConflictChecker interface {
	// FindConflicts returns the ACTIVE reservations of the club that hold any
	// of seatIDs during [start, end). No seats means no conflicts.
	FindConflicts(ctx context.Context, clubID string, seatIDs []string, start, end time.Time) ([]*entity.Reservation, error)
}

type availabilityEngine struct {
	seats        repository.SeatRepository
	reservations repository.ReservationRepository
	log          *zap.Logger
}

func NewAvailabilityEngine(seats repository.SeatRepository, reservations repository.ReservationRepository, log *zap.Logger) AvailabilityEngine {
	return &availabilityEngine{
		seats:        seats,
		reservations: reservations,
		log:          log.With(zap.String("service", "availability")),
	}
}

func (e *availabilityEngine) Snapshot(ctx context.Context, clubID string, start, end time.Time) (*entity.AvailabilitySnapshot, error) {
	seats, err := e.seats.FindByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("load seats of club %s: %w", clubID, err)
	}

	seatIDs := make([]string, len(seats))
	for i, seat := range seats {
		seatIDs[i] = seat.ID
	}

	active, err := e.reservations.FindActiveOverlapping(ctx, clubID, seatIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("load reservations of club %s: %w", clubID, err)
	}

	snapshot := BuildSnapshot(seats, active, start, end)
	snapshot.ClubID = clubID
	return snapshot, nil
}

// BuildSnapshot marks every seat held by an ACTIVE reservation overlapping
// [start, end) as unavailable. Seats keep their input order.
func BuildSnapshot(seats []*entity.Seat, reservations []*entity.Reservation, start, end time.Time) *entity.AvailabilitySnapshot {
	occupied := make(map[string]struct{})
	for _, res := range reservations {
		if res.Status != entity.ReservationStatusActive || !res.Overlaps(start, end) {
			continue
		}
		for _, id := range res.SeatIDs {
			occupied[id] = struct{}{}
		}
	}

	snapshot := &entity.AvailabilitySnapshot{
		Start:      start,
		End:        end,
		TotalSeats: len(seats),
		Seats:      make([]entity.SeatAvailability, 0, len(seats)),
	}

	for _, seat := range seats {
		_, taken := occupied[seat.ID]
		available := !taken

		if seat.IsVIP {
			snapshot.VIPSeats++
		}
		if available {
			snapshot.AvailableCount++
			if seat.IsVIP {
				snapshot.AvailableVIPCount++
			}
		}
		snapshot.Seats = append(snapshot.Seats, entity.SeatAvailability{Seat: seat, Available: available})
	}

	return snapshot
}

type conflictChecker struct {
	reservations repository.ReservationRepository
}

func NewConflictChecker(reservations repository.ReservationRepository) ConflictChecker {
	return &conflictChecker{reservations: reservations}
}

func (c *conflictChecker) FindConflicts(ctx context.Context, clubID string, seatIDs []string, start, end time.Time) ([]*entity.Reservation, error) {
	if len(seatIDs) == 0 {
		return []*entity.Reservation{}, nil
	}

	found, err := c.reservations.FindActiveOverlapping(ctx, clubID, seatIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("find conflicts in club %s: %w", clubID, err)
	}

	conflicts := make([]*entity.Reservation, 0, len(found))
	for _, res := range found {
		if res.ClubID == clubID &&
			res.Status == entity.ReservationStatusActive &&
			res.Overlaps(start, end) &&
			res.HasAnySeat(seatIDs) {
			conflicts = append(conflicts, res)
		}
	}
	return conflicts, nil
}
