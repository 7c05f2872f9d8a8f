package usecase

import (
	"context"
	"sync"
	"time"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"
	"smartclub/pkg/clock"
	"smartclub/pkg/lock"
	"smartclub/pkg/queue"
	"smartclub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var base = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type fakeReservationRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Reservation
	// casMisses forces UpdateStatus to report a lost race this many times.
	casMisses int
}

func newFakeReservationRepo(seed ...*entity.Reservation) *fakeReservationRepo {
	r := &fakeReservationRepo{items: make(map[string]*entity.Reservation)}
	for _, res := range seed {
		r.items[res.ID] = cloneReservation(res)
	}
	return r
}

func cloneReservation(res *entity.Reservation) *entity.Reservation {
	c := *res
	c.SeatIDs = append([]string(nil), res.SeatIDs...)
	return &c
}

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[res.ID] = cloneReservation(res)
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id string) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(res), nil
}

func (r *fakeReservationRepo) FindByUserID(_ context.Context, userID string) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reservation
	for _, res := range r.items {
		if res.UserID == userID {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) FindActiveOverlapping(_ context.Context, clubID string, seatIDs []string, start, end time.Time) ([]*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reservation
	for _, res := range r.items {
		if res.ClubID == clubID &&
			res.Status == entity.ReservationStatusActive &&
			res.HasAnySeat(seatIDs) &&
			res.Start.Before(end) && res.End.After(start) {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, res *entity.Reservation, expected entity.ReservationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.casMisses > 0 {
		r.casMisses--
		return false, nil
	}
	stored, ok := r.items[res.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	stored.Status = res.Status
	stored.CancelledAt = res.CancelledAt
	stored.CancelledBy = res.CancelledBy
	stored.PaymentReference = res.PaymentReference
	return true, nil
}

func (r *fakeReservationRepo) DeleteForUserCancelledOrEndedBefore(_ context.Context, userID string, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, res := range r.items {
		if res.UserID == userID && (res.Status == entity.ReservationStatusCancelled || res.End.Before(before)) {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) DeleteEndedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, res := range r.items {
		if res.End.Before(before) {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeClubRepo struct {
	clubs map[string]*entity.Club
	order []string
}

func newFakeClubRepo(clubs ...*entity.Club) *fakeClubRepo {
	r := &fakeClubRepo{clubs: make(map[string]*entity.Club)}
	for _, c := range clubs {
		r.clubs[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *fakeClubRepo) Create(_ context.Context, club *entity.Club) error {
	if _, ok := r.clubs[club.ID]; ok {
		return nil
	}
	r.clubs[club.ID] = club
	r.order = append(r.order, club.ID)
	return nil
}

func (r *fakeClubRepo) FindByID(_ context.Context, id string) (*entity.Club, error) {
	return r.clubs[id], nil
}

func (r *fakeClubRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Club, error) {
	var out []*entity.Club
	for i := offset; i < len(r.order) && len(out) < limit; i++ {
		out = append(out, r.clubs[r.order[i]])
	}
	return out, nil
}

func (r *fakeClubRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.clubs)), nil
}

type fakeSeatRepo struct {
	seats map[string][]*entity.Seat
}

func newFakeSeatRepo(seats ...*entity.Seat) *fakeSeatRepo {
	r := &fakeSeatRepo{seats: make(map[string][]*entity.Seat)}
	for _, s := range seats {
		r.seats[s.ClubID] = append(r.seats[s.ClubID], s)
	}
	return r
}

func (r *fakeSeatRepo) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	for _, s := range seats {
		r.seats[s.ClubID] = append(r.seats[s.ClubID], s)
	}
	return nil
}

func (r *fakeSeatRepo) FindByClubID(_ context.Context, clubID string) ([]*entity.Seat, error) {
	return r.seats[clubID], nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	c := *user
	r.users[user.ID] = &c
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.sessions[s.Token.String()] = s
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return context.Canceled
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fixture is the club used across tests: S1 (VIP), S2, S3 and a price list
// with a "standard" package at "1 000".
type fixture struct {
	repo         *repository.Repository
	reservations *fakeReservationRepo
	publisher    *recordingPublisher
	clock        clock.Clock
	config       *utils.Config
	locker       *lock.LocalLocker
	service      *Service
}

func testClub() *entity.Club {
	return &entity.Club{
		ID:   "club-1",
		Name: "Arena",
		Prices: []entity.PriceItem{
			{Service: "VIP room", Category: "vip", Price: "2 500 ₸"},
			{Service: "Standard", Category: "hall", Price: "1 000"},
		},
	}
}

func testSeats() []*entity.Seat {
	return []*entity.Seat{
		{ID: "S1", ClubID: "club-1", Label: "1", IsVIP: true, Order: 1},
		{ID: "S2", ClubID: "club-1", Label: "2", Order: 2},
		{ID: "S3", ClubID: "club-1", Label: "3", Order: 3},
	}
}

func newFixture(payLater bool, seed ...*entity.Reservation) *fixture {
	reservations := newFakeReservationRepo(seed...)
	repo := &repository.Repository{
		User:        newFakeUserRepo(),
		Session:     newFakeSessionRepo(),
		Club:        newFakeClubRepo(testClub()),
		Seat:        newFakeSeatRepo(testSeats()...),
		Reservation: reservations,
	}

	config := &utils.Config{}
	config.Booking.PayLater = payLater
	config.Session.ExpiryHours = 24
	config.Payment.WebhookSecret = "whsec_test"

	publisher := &recordingPublisher{}
	clk := clock.NewFixed(at(7, 0))
	locker := lock.NewLocalLocker(200 * time.Millisecond)

	return &fixture{
		repo:         repo,
		reservations: reservations,
		publisher:    publisher,
		clock:        clk,
		config:       config,
		locker:       locker,
		service: NewService(repo, Deps{
			Locker:    locker,
			Publisher: publisher,
			Clock:     clk,
		}, config, zap.NewNop()),
	}
}
