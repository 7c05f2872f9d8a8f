package repository

import (
	"context"
	"fmt"
	"strings"

	"smartclub/internal/data/entity"
	"smartclub/pkg/database"

	"go.uber.org/zap"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByClubID(ctx context.Context, clubID string) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO seats (id, club_id, label, is_vip, seat_order) VALUES `
	args := make([]any, 0, len(seats)*5)
	values := make([]string, 0, len(seats))

	for i, seat := range seats {
		base := i * 5
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, seat.ID, seat.ClubID, seat.Label, seat.IsVIP, seat.Order)
	}

	query += strings.Join(values, ", ") + ` ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to create seats batch",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("failed to create seats batch: %w", err)
	}

	return nil
}

// FindByClubID returns the club's seats in display order.
func (r *seatRepository) FindByClubID(ctx context.Context, clubID string) ([]*entity.Seat, error) {
	query := `
		SELECT id, club_id, label, is_vip, seat_order
		FROM seats
		WHERE club_id = $1
		ORDER BY seat_order ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, clubID)
	if err != nil {
		r.log.Error("Failed to find seats by club",
			zap.Error(err),
			zap.String("club_id", clubID),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(&seat.ID, &seat.ClubID, &seat.Label, &seat.IsVIP, &seat.Order); err != nil {
			r.log.Error("Failed to scan seat", zap.Error(err))
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seat rows: %w", err)
	}

	return seats, nil
}
