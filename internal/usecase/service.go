package usecase

import (
	"smartclub/internal/data/repository"
	"smartclub/pkg/clock"
	"smartclub/pkg/lock"
	"smartclub/pkg/queue"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Club         ClubService
	Booking      BookingService
	Payment      PaymentService
	Reservations ReservationManager
}

// Deps are the infrastructure pieces the services share.
type Deps struct {
	Locker    lock.Locker
	Publisher queue.Publisher
	Clock     clock.Clock
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	availability := NewAvailabilityEngine(repo.Seat, repo.Reservation, log)
	conflicts := NewConflictChecker(repo.Reservation)
	pricing := NewPricingResolver(repo.Club, log)
	reservations := NewReservationManager(repo.Reservation, deps.Publisher, deps.Clock, config, log)

	return &Service{
		Auth:         NewAuthService(repo, config, deps.Clock, log),
		User:         NewUserService(repo.User, repo.Session, deps.Clock, log),
		Club:         NewClubService(repo, deps.Clock, log),
		Booking:      NewBookingService(repo, availability, conflicts, pricing, reservations, deps.Locker, deps.Clock, log),
		Payment:      NewPaymentService(reservations, conflicts, deps.Locker, config, log),
		Reservations: reservations,
	}
}
