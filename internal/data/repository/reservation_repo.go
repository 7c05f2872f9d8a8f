package repository

import (
	"context"
	"fmt"
	"time"

	"smartclub/internal/data/entity"
	"smartclub/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	FindByID(ctx context.Context, id string) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Reservation, error)

	// FindActiveOverlapping returns ACTIVE reservations of the club holding
	// any of seatIDs with start_at < end AND end_at > start.
	FindActiveOverlapping(ctx context.Context, clubID string, seatIDs []string, start, end time.Time) ([]*entity.Reservation, error)

	// UpdateStatus persists the status fields of res only if the stored
	// status still equals expected. It reports whether the row was updated.
	UpdateStatus(ctx context.Context, res *entity.Reservation, expected entity.ReservationStatus) (bool, error)

	DeleteForUserCancelledOrEndedBefore(ctx context.Context, userID string, before time.Time) (int64, error)
	// DeleteEndedBefore removes every reservation whose window closed before
	// the cutoff, whatever its status.
	DeleteEndedBefore(ctx context.Context, before time.Time) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, club_id, user_id, seat_ids, start_at, end_at, duration_minutes,
		       package_id, total_price, created_at, status, cancelled_at, cancelled_by,
		       payment_reference`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.ClubID,
		&res.UserID,
		&res.SeatIDs,
		&res.Start,
		&res.End,
		&res.DurationMinutes,
		&res.PackageID,
		&res.TotalPrice,
		&res.CreatedAt,
		&res.Status,
		&res.CancelledAt,
		&res.CancelledBy,
		&res.PaymentReference,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) collect(rows pgx.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()

	var out []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		out = append(out, res)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}
	return out, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, club_id, user_id, seat_ids, start_at, end_at,
		                          duration_minutes, package_id, total_price, created_at,
		                          status, cancelled_at, cancelled_by, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		res.ID,
		res.ClubID,
		res.UserID,
		res.SeatIDs,
		res.Start,
		res.End,
		res.DurationMinutes,
		res.PackageID,
		res.TotalPrice,
		res.CreatedAt,
		res.Status,
		res.CancelledAt,
		res.CancelledBy,
		res.PaymentReference,
	)
	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("club_id", res.ClubID),
			zap.String("user_id", res.UserID),
		)
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id),
		)
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}

	return res, nil
}

// FindByUserID returns every reservation of the user, latest start first.
func (r *reservationRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY start_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reservations by user",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find reservations for user %s: %w", userID, err)
	}

	return r.collect(rows)
}

func (r *reservationRepository) FindActiveOverlapping(ctx context.Context, clubID string, seatIDs []string, start, end time.Time) ([]*entity.Reservation, error) {
	if len(seatIDs) == 0 || !start.Before(end) {
		return nil, nil
	}

	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE club_id = $1
		  AND seat_ids && $2
		  AND status = 'ACTIVE'
		  AND start_at < $4
		  AND end_at > $3
		ORDER BY start_at ASC`

	rows, err := r.db.Query(ctx, query, clubID, seatIDs, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping reservations",
			zap.Error(err),
			zap.String("club_id", clubID),
			zap.Strings("seat_ids", seatIDs),
		)
		return nil, fmt.Errorf("find overlapping reservations in club %s: %w", clubID, err)
	}

	return r.collect(rows)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, res *entity.Reservation, expected entity.ReservationStatus) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $2, cancelled_at = $3, cancelled_by = $4, payment_reference = $5
		WHERE id = $1 AND status = $6
	`

	tag, err := r.db.Exec(ctx, query,
		res.ID,
		res.Status,
		res.CancelledAt,
		res.CancelledBy,
		res.PaymentReference,
		expected,
	)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", res.ID),
			zap.String("status", string(res.Status)),
		)
		return false, fmt.Errorf("update reservation %s status: %w", res.ID, err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *reservationRepository) DeleteForUserCancelledOrEndedBefore(ctx context.Context, userID string, before time.Time) (int64, error) {
	query := `
		DELETE FROM reservations
		WHERE user_id = $1 AND (status = 'CANCELLED' OR end_at < $2)
	`

	tag, err := r.db.Exec(ctx, query, userID, before)
	if err != nil {
		r.log.Error("Failed to purge user reservations",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return 0, fmt.Errorf("purge reservations for user %s: %w", userID, err)
	}

	return tag.RowsAffected(), nil
}

func (r *reservationRepository) DeleteEndedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM reservations WHERE end_at < $1`

	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		r.log.Error("Failed to purge past reservations", zap.Error(err))
		return 0, fmt.Errorf("purge past reservations: %w", err)
	}

	return tag.RowsAffected(), nil
}
