package repository

import (
	"smartclub/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Club        ClubRepository
	Seat        SeatRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Club:        NewClubRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
