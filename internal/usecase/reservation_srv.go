package usecase

import (
	"context"
	"fmt"
	"sort"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"
	"smartclub/pkg/clock"
	"smartclub/pkg/queue"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

// maxStatusRetries bounds the reload-and-retry loop when a concurrent
// writer wins the status compare-and-swap.
const maxStatusRetries = 3

// ReservationManager owns the reservation state machine:
// PENDING -> ACTIVE on payment, PENDING|ACTIVE -> CANCELLED on cancel.
type ReservationManager interface {
	Create(ctx context.Context, res *entity.Reservation) (*entity.Reservation, error)
	Get(ctx context.Context, id string) (*entity.Reservation, error)
	Cancel(ctx context.Context, id, cancelledBy string) (*entity.Reservation, error)
	Activate(ctx context.Context, id, paymentRef string) (*entity.Reservation, error)
	PurgeForUser(ctx context.Context, userID string) (int64, error)
	PurgeAllPast(ctx context.Context) (int64, error)
	History(ctx context.Context, userID string) ([]*entity.Reservation, error)
}

type reservationManager struct {
	repo      repository.ReservationRepository
	publisher queue.Publisher
	clock     clock.Clock
	payLater  bool
	log       *zap.Logger
}

func NewReservationManager(
	repo repository.ReservationRepository,
	publisher queue.Publisher,
	clk clock.Clock,
	config *utils.Config,
	log *zap.Logger,
) ReservationManager {
	return &reservationManager{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		payLater:  config.Booking.PayLater,
		log:       log.With(zap.String("service", "reservation")),
	}
}

// defaultStatus is the status given to reservations created without one.
func (m *reservationManager) defaultStatus() entity.ReservationStatus {
	if m.payLater {
		return entity.ReservationStatusActive
	}
	return entity.ReservationStatusPending
}

func (m *reservationManager) Create(ctx context.Context, res *entity.Reservation) (*entity.Reservation, error) {
	if res.ID == "" {
		res.ID = utils.GenerateUUIDString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = m.clock.Now()
	}
	if res.Status == "" {
		res.Status = m.defaultStatus()
	}

	if err := m.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("save reservation: %w", err)
	}

	m.log.Info("Reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("club_id", res.ClubID),
		zap.String("user_id", res.UserID),
		zap.Strings("seat_ids", res.SeatIDs),
		zap.String("status", string(res.Status)),
	)
	m.publish(ctx, queue.EventReservationCreated, res)
	return res, nil
}

func (m *reservationManager) Get(ctx context.Context, id string) (*entity.Reservation, error) {
	res, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reservation %s: %w", id, err)
	}
	if res == nil {
		return nil, ErrReservationNotFound
	}
	return res, nil
}

// Cancel is idempotent: an already cancelled reservation is returned as is.
// No ownership check happens here.
func (m *reservationManager) Cancel(ctx context.Context, id, cancelledBy string) (*entity.Reservation, error) {
	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		res, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.Status == entity.ReservationStatusCancelled {
			return res, nil
		}

		previous := res.Status
		now := m.clock.Now()
		res.Status = entity.ReservationStatusCancelled
		res.CancelledAt = &now
		if cancelledBy != "" {
			res.CancelledBy = &cancelledBy
		}

		updated, err := m.repo.UpdateStatus(ctx, res, previous)
		if err != nil {
			return nil, fmt.Errorf("cancel reservation %s: %w", id, err)
		}
		if updated {
			m.log.Info("Reservation cancelled",
				zap.String("reservation_id", id),
				zap.String("cancelled_by", cancelledBy),
			)
			m.publish(ctx, queue.EventReservationCancelled, res)
			return res, nil
		}
	}

	return nil, ErrConcurrentUpdate
}

// Activate moves a PENDING reservation to ACTIVE. Activating an ACTIVE
// reservation returns it unchanged; a CANCELLED one cannot be activated.
func (m *reservationManager) Activate(ctx context.Context, id, paymentRef string) (*entity.Reservation, error) {
	for attempt := 0; attempt < maxStatusRetries; attempt++ {
		res, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		switch res.Status {
		case entity.ReservationStatusActive:
			return res, nil
		case entity.ReservationStatusCancelled:
			return nil, fmt.Errorf("%w: reservation %s is cancelled", ErrInvalidTransition, id)
		}

		previous := res.Status
		res.Status = entity.ReservationStatusActive
		if paymentRef != "" {
			res.PaymentReference = &paymentRef
		}

		updated, err := m.repo.UpdateStatus(ctx, res, previous)
		if err != nil {
			return nil, fmt.Errorf("activate reservation %s: %w", id, err)
		}
		if updated {
			m.log.Info("Reservation activated",
				zap.String("reservation_id", id),
				zap.String("payment_reference", paymentRef),
			)
			m.publish(ctx, queue.EventReservationActivated, res)
			return res, nil
		}
	}

	return nil, ErrConcurrentUpdate
}

// PurgeForUser hard-deletes the user's cancelled and already ended
// reservations.
func (m *reservationManager) PurgeForUser(ctx context.Context, userID string) (int64, error) {
	deleted, err := m.repo.DeleteForUserCancelledOrEndedBefore(ctx, userID, m.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("purge reservations of user %s: %w", userID, err)
	}

	m.log.Info("User reservations purged",
		zap.String("user_id", userID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// PurgeAllPast hard-deletes reservations of every user that already ended.
// Cancelled reservations still ahead are left for their owner's purge.
func (m *reservationManager) PurgeAllPast(ctx context.Context) (int64, error) {
	deleted, err := m.repo.DeleteEndedBefore(ctx, m.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("purge past reservations: %w", err)
	}

	m.log.Info("Past reservations purged", zap.Int64("deleted", deleted))
	return deleted, nil
}

// History returns all of the user's reservations, latest start first.
func (m *reservationManager) History(ctx context.Context, userID string) ([]*entity.Reservation, error) {
	list, err := m.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history of user %s: %w", userID, err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Start.After(list[j].Start)
	})
	return list, nil
}

func (m *reservationManager) publish(ctx context.Context, eventType string, res *entity.Reservation) {
	event := queue.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		ClubID:        res.ClubID,
		UserID:        res.UserID,
		SeatIDs:       res.SeatIDs,
		Start:         res.Start,
		End:           res.End,
		Status:        string(res.Status),
		TotalPrice:    res.TotalPrice,
		OccurredAt:    m.clock.Now(),
	}

	if err := m.publisher.Publish(ctx, event); err != nil {
		m.log.Warn("Failed to publish reservation event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("reservation_id", res.ID),
		)
	}
}
