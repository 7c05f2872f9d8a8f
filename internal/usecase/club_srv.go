package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"
	"smartclub/internal/dto/request"
	"smartclub/internal/dto/response"
	"smartclub/pkg/clock"

	"go.uber.org/zap"
)

type ClubService interface {
	GetClubs(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClubResponse], error)
	GetClubByID(ctx context.Context, clubID string) (*response.ClubDetailResponse, error)
	GetClubSeats(ctx context.Context, clubID string) ([]response.SeatResponse, error)

	// SeedFromFile loads clubs with their seats from a JSON array when the
	// clubs table is empty. It returns the number of clubs inserted.
	SeedFromFile(ctx context.Context, path string) (int, error)
}

type clubService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewClubService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) ClubService {
	return &clubService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "club")),
	}
}

func (s *clubService) GetClubs(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClubResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	clubs, err := s.repo.Club.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get clubs from repository",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get clubs: %w", err)
	}

	total, err := s.repo.Club.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clubs: %w", err)
	}

	clubResponses := make([]response.ClubResponse, len(clubs))
	for i, club := range clubs {
		clubResponses[i] = response.ClubToResponse(club)
	}

	return response.NewPaginatedResponse(clubResponses, req.Page, limit, total), nil
}

func (s *clubService) GetClubByID(ctx context.Context, clubID string) (*response.ClubDetailResponse, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	seats, err := s.repo.Seat.FindByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get seats of club %s: %w", clubID, err)
	}

	resp := response.ClubToDetailResponse(club, seats)
	return &resp, nil
}

func (s *clubService) GetClubSeats(ctx context.Context, clubID string) ([]response.SeatResponse, error) {
	if _, err := s.findClub(ctx, clubID); err != nil {
		return nil, err
	}

	seats, err := s.repo.Seat.FindByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get seats of club %s: %w", clubID, err)
	}

	return response.SeatsToResponse(seats), nil
}

func (s *clubService) findClub(ctx context.Context, clubID string) (*entity.Club, error) {
	club, err := s.repo.Club.FindByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club %s: %w", clubID, err)
	}
	if club == nil {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, clubID)
	}
	return club, nil
}

func (s *clubService) SeedFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	count, err := s.repo.Club.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("count clubs: %w", err)
	}
	if count > 0 {
		s.log.Info("Club seed skipped, clubs already present", zap.Int64("count", count))
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var clubs []entity.Club
	if err := json.Unmarshal(raw, &clubs); err != nil {
		return 0, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	now := s.clock.Now()
	for i := range clubs {
		club := &clubs[i]
		if club.ID == "" {
			return i, fmt.Errorf("seed club #%d has no id", i)
		}
		club.CreatedAt = now

		if err := s.repo.Club.Create(ctx, club); err != nil {
			return i, err
		}

		seats := make([]*entity.Seat, len(club.Seats))
		for j := range club.Seats {
			seat := club.Seats[j]
			seat.ClubID = club.ID
			if seat.ID == "" {
				seat.ID = fmt.Sprintf("%s-%d", club.ID, j+1)
			}
			if seat.Order == 0 {
				seat.Order = j + 1
			}
			seats[j] = &seat
		}
		if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
			return i, err
		}
	}

	s.log.Info("Clubs seeded", zap.Int("clubs", len(clubs)), zap.String("file", path))
	return len(clubs), nil
}
