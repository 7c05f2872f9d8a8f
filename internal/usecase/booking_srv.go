package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"
	"smartclub/internal/dto/request"
	"smartclub/internal/dto/response"
	"smartclub/pkg/clock"
	"smartclub/pkg/lock"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	// Public
	Availability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	CheckConflicts(ctx context.Context, req *request.AvailabilityRequest) (*response.ConflictCheckResponse, error)

	// Authenticated; userID is the caller's identity
	Reserve(ctx context.Context, userID string, req *request.ReserveRequest) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, userID string, req *request.CancelRequest) (*response.ReservationResponse, error)
	History(ctx context.Context, userID string, req *request.HistoryRequest) ([]response.ReservationResponse, error)
	PurgePast(ctx context.Context, userID string) (*response.PurgeResponse, error)

	// Admin
	PurgeAllPast(ctx context.Context) (*response.PurgeResponse, error)
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityEngine
	conflicts    ConflictChecker
	pricing      PricingResolver
	reservations ReservationManager
	locker       lock.Locker
	clock        clock.Clock
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityEngine,
	conflicts ConflictChecker,
	pricing PricingResolver,
	reservations ReservationManager,
	locker lock.Locker,
	clk clock.Clock,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		conflicts:    conflicts,
		pricing:      pricing,
		reservations: reservations,
		locker:       locker,
		clock:        clk,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Availability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if _, err := s.loadClub(ctx, req.ClubID); err != nil {
		return nil, err
	}

	snapshot, err := s.availability.Snapshot(ctx, req.ClubID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	resp := response.AvailabilityToResponse(snapshot)
	return &resp, nil
}

func (s *bookingService) CheckConflicts(ctx context.Context, req *request.AvailabilityRequest) (*response.ConflictCheckResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if _, err := s.loadClub(ctx, req.ClubID); err != nil {
		return nil, err
	}

	seatIDs := uniqueStrings(req.SeatIDs)
	conflicts, err := s.conflicts.FindConflicts(ctx, req.ClubID, seatIDs, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	return &response.ConflictCheckResponse{
		ClubID:    req.ClubID,
		Start:     req.Start,
		End:       req.End,
		SeatIDs:   seatIDs,
		Available: len(conflicts) == 0,
		Conflicts: response.ReservationsToResponse(conflicts),
	}, nil
}

func (s *bookingService) Reserve(ctx context.Context, userID string, req *request.ReserveRequest) (*response.ReservationResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	seatIDs := uniqueStrings(req.SeatIDs)

	if _, err := s.loadClub(ctx, req.ClubID); err != nil {
		return nil, err
	}
	if err := s.ensureSeatsInClub(ctx, req.ClubID, seatIDs); err != nil {
		return nil, err
	}

	totalPrice, err := s.resolveTotal(ctx, req, len(seatIDs))
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.ClubKey(req.ClubID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			s.log.Warn("Club lock not acquired", zap.String("club_id", req.ClubID))
			return nil, ErrClubBusy
		}
		return nil, fmt.Errorf("acquire club lock: %w", err)
	}
	defer release()

	conflicts, err := s.conflicts.FindConflicts(ctx, req.ClubID, seatIDs, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.log.Info("Reservation rejected - seats taken",
			zap.String("club_id", req.ClubID),
			zap.String("user_id", userID),
			zap.Int("conflicts", len(conflicts)),
		)
		return nil, &ConflictError{Conflicts: conflicts}
	}

	res, err := s.reservations.Create(ctx, &entity.Reservation{
		ClubID:          req.ClubID,
		UserID:          userID,
		SeatIDs:         seatIDs,
		Start:           req.Start,
		End:             req.End,
		DurationMinutes: req.DurationMinutes,
		PackageID:       req.PackageID,
		TotalPrice:      totalPrice,
	})
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

// resolveTotal prefers the client supplied total, then the club price list.
// An unresolvable price leaves the total unset.
func (s *bookingService) resolveTotal(ctx context.Context, req *request.ReserveRequest, seatCount int) (*int, error) {
	if req.TotalPrice != nil {
		total := *req.TotalPrice
		return &total, nil
	}
	if req.PackageID == nil {
		return nil, nil
	}

	total, ok, err := s.pricing.ComputePrice(ctx, req.ClubID, *req.PackageID, seatCount)
	if err != nil {
		return nil, fmt.Errorf("compute price: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &total, nil
}

// Cancel enforces ownership before delegating to the lifecycle manager.
func (s *bookingService) Cancel(ctx context.Context, userID string, req *request.CancelRequest) (*response.ReservationResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.reservations.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		s.log.Warn("Cancel rejected - not owner",
			zap.String("reservation_id", req.ReservationID),
			zap.String("user_id", userID),
		)
		return nil, ErrForbidden
	}

	res, err := s.reservations.Cancel(ctx, req.ReservationID, userID)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *bookingService) History(ctx context.Context, userID string, req *request.HistoryRequest) ([]response.ReservationResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if req.Scope == "" {
		req.Scope = request.HistoryScopeAll
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	list, err := s.reservations.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	filtered := list[:0]
	for _, res := range list {
		if inScope(res, req.Scope, now) {
			filtered = append(filtered, res)
		}
	}

	return response.ReservationsToResponse(filtered), nil
}

func (s *bookingService) PurgePast(ctx context.Context, userID string) (*response.PurgeResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	deleted, err := s.reservations.PurgeForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &response.PurgeResponse{Deleted: deleted}, nil
}

func (s *bookingService) PurgeAllPast(ctx context.Context) (*response.PurgeResponse, error) {
	deleted, err := s.reservations.PurgeAllPast(ctx)
	if err != nil {
		return nil, err
	}
	return &response.PurgeResponse{Deleted: deleted}, nil
}

func (s *bookingService) loadClub(ctx context.Context, clubID string) (*entity.Club, error) {
	club, err := s.repo.Club.FindByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("load club %s: %w", clubID, err)
	}
	if club == nil {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, clubID)
	}
	return club, nil
}

func (s *bookingService) ensureSeatsInClub(ctx context.Context, clubID string, seatIDs []string) error {
	seats, err := s.repo.Seat.FindByClubID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("load seats of club %s: %w", clubID, err)
	}

	known := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		known[seat.ID] = struct{}{}
	}
	for _, id := range seatIDs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrSeatNotFound, id)
		}
	}
	return nil
}

func inScope(res *entity.Reservation, scope request.HistoryScope, now time.Time) bool {
	switch scope {
	case request.HistoryScopeActive:
		return res.Status != entity.ReservationStatusCancelled && res.End.After(now)
	case request.HistoryScopePast:
		return res.Status == entity.ReservationStatusCancelled || !res.End.After(now)
	default:
		return true
	}
}

// uniqueStrings drops duplicates and keeps first-seen order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
