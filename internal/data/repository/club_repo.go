package repository

import (
	"context"
	"fmt"

	"smartclub/internal/data/entity"
	"smartclub/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClubRepository interface {
	Create(ctx context.Context, club *entity.Club) error
	FindByID(ctx context.Context, id string) (*entity.Club, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Club, error)
	CountAll(ctx context.Context) (int64, error)
}

type clubRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewClubRepository(db database.PgxIface, log *zap.Logger) ClubRepository {
	return &clubRepository{
		db:  db,
		log: log.With(zap.String("repository", "club")),
	}
}

const clubColumns = `id, name, description, image, location, latitude, longitude,
		       address, phone, email, website, prices, created_at`

func scanClub(row pgx.Row) (*entity.Club, error) {
	var club entity.Club
	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.Description,
		&club.Image,
		&club.Location,
		&club.Latitude,
		&club.Longitude,
		&club.Address,
		&club.Phone,
		&club.Email,
		&club.Website,
		&club.Prices,
		&club.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// Create inserts a club; an existing id is left untouched.
func (r *clubRepository) Create(ctx context.Context, club *entity.Club) error {
	query := `
		INSERT INTO clubs (id, name, description, image, location, latitude, longitude,
		                   address, phone, email, website, prices, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`

	prices := club.Prices
	if prices == nil {
		prices = []entity.PriceItem{}
	}

	_, err := r.db.Exec(ctx, query,
		club.ID,
		club.Name,
		club.Description,
		club.Image,
		club.Location,
		club.Latitude,
		club.Longitude,
		club.Address,
		club.Phone,
		club.Email,
		club.Website,
		prices,
		club.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create club",
			zap.Error(err),
			zap.String("club_id", club.ID),
		)
		return fmt.Errorf("create club %s: %w", club.ID, err)
	}

	return nil
}

func (r *clubRepository) FindByID(ctx context.Context, id string) (*entity.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`

	club, err := scanClub(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find club by ID",
			zap.Error(err),
			zap.String("club_id", id),
		)
		return nil, fmt.Errorf("find club by ID %s: %w", id, err)
	}

	return club, nil
}

func (r *clubRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get all clubs",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all clubs limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var clubs []*entity.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			r.log.Error("Failed to scan club row", zap.Error(err))
			return nil, fmt.Errorf("scan club row: %w", err)
		}
		clubs = append(clubs, club)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate club rows: %w", err)
	}

	return clubs, nil
}

func (r *clubRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&count); err != nil {
		r.log.Error("Database error counting clubs", zap.Error(err))
		return 0, fmt.Errorf("count all clubs: %w", err)
	}
	return count, nil
}
