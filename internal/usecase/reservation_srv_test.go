package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"smartclub/internal/data/entity"
	"smartclub/pkg/clock"
	"smartclub/pkg/queue"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

func newManager(payLater bool, seed ...*entity.Reservation) (ReservationManager, *fakeReservationRepo, *recordingPublisher) {
	repo := newFakeReservationRepo(seed...)
	pub := &recordingPublisher{}
	config := &utils.Config{}
	config.Booking.PayLater = payLater
	return NewReservationManager(repo, pub, clock.NewFixed(at(7, 0)), config, zap.NewNop()), repo, pub
}

func TestReservationManager_CreateDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payLater   bool
		status     entity.ReservationStatus
		wantStatus entity.ReservationStatus
	}{
		{name: "pay first policy", payLater: false, wantStatus: entity.ReservationStatusPending},
		{name: "pay later policy", payLater: true, wantStatus: entity.ReservationStatusActive},
		{name: "explicit status kept", payLater: false, status: entity.ReservationStatusActive, wantStatus: entity.ReservationStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, repo, pub := newManager(tt.payLater)

			res, err := m.Create(context.Background(), &entity.Reservation{
				ClubID:  "club-1",
				UserID:  "u1",
				SeatIDs: []string{"S1"},
				Start:   at(9, 0),
				End:     at(10, 0),
				Status:  tt.status,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if res.ID == "" {
				t.Error("expected an id to be assigned")
			}
			if !res.CreatedAt.Equal(at(7, 0)) {
				t.Errorf("createdAt = %v, want clock time", res.CreatedAt)
			}
			if res.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Status, tt.wantStatus)
			}
			if repo.count() != 1 {
				t.Errorf("stored %d reservations, want 1", repo.count())
			}
			if got := pub.types(); !reflect.DeepEqual(got, []string{queue.EventReservationCreated}) {
				t.Errorf("events = %v", got)
			}
		})
	}
}

func TestReservationManager_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	m, _, pub := newManager(false, activeRes("r1", []string{"S1"}, 9, 10))
	ctx := context.Background()

	first, err := m.Cancel(ctx, "r1", "u1")
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	second, err := m.Cancel(ctx, "r1", "someone-else")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}

	if first.Status != entity.ReservationStatusCancelled || second.Status != entity.ReservationStatusCancelled {
		t.Fatalf("statuses = %s/%s", first.Status, second.Status)
	}
	if second.CancelledBy == nil || *second.CancelledBy != "u1" {
		t.Errorf("cancelledBy changed on second cancel: %v", second.CancelledBy)
	}
	if second.CancelledAt == nil || !second.CancelledAt.Equal(at(7, 0)) {
		t.Errorf("cancelledAt = %v", second.CancelledAt)
	}
	if got := pub.types(); !reflect.DeepEqual(got, []string{queue.EventReservationCancelled}) {
		t.Errorf("events = %v, want exactly one cancel event", got)
	}
}

func TestReservationManager_CancelRetriesLostRace(t *testing.T) {
	t.Parallel()

	m, repo, _ := newManager(false, activeRes("r1", []string{"S1"}, 9, 10))
	repo.casMisses = 1

	res, err := m.Cancel(context.Background(), "r1", "u1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.Status != entity.ReservationStatusCancelled {
		t.Fatalf("status = %s", res.Status)
	}

	repo.casMisses = maxStatusRetries
	repo.items["r2"] = activeRes("r2", []string{"S2"}, 9, 10)
	if _, err := m.Cancel(context.Background(), "r2", "u1"); !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("err = %v, want ErrConcurrentUpdate", err)
	}
}

func TestReservationManager_CancelNotFound(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(false)
	if _, err := m.Cancel(context.Background(), "missing", "u1"); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
}

func TestReservationManager_Activate(t *testing.T) {
	t.Parallel()

	pending := activeRes("pending", []string{"S1"}, 9, 10)
	pending.Status = entity.ReservationStatusPending
	cancelled := activeRes("cancelled", []string{"S2"}, 9, 10)
	cancelled.Status = entity.ReservationStatusCancelled
	active := activeRes("active", []string{"S3"}, 9, 10)

	tests := []struct {
		name       string
		id         string
		wantStatus entity.ReservationStatus
		wantRef    string
		wantErr    error
	}{
		{name: "pending becomes active", id: "pending", wantStatus: entity.ReservationStatusActive, wantRef: "pay_123"},
		{name: "active is unchanged", id: "active", wantStatus: entity.ReservationStatusActive},
		{name: "cancelled cannot activate", id: "cancelled", wantErr: ErrInvalidTransition},
		{name: "missing", id: "nope", wantErr: ErrReservationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newManager(false, pending, cancelled, active)

			res, err := m.Activate(context.Background(), tt.id, "pay_123")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Activate: %v", err)
			}
			if res.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Status, tt.wantStatus)
			}
			gotRef := ""
			if res.PaymentReference != nil {
				gotRef = *res.PaymentReference
			}
			if gotRef != tt.wantRef {
				t.Errorf("payment reference = %q, want %q", gotRef, tt.wantRef)
			}
		})
	}
}

func TestReservationManager_PurgeForUser(t *testing.T) {
	t.Parallel()

	mine := func(id string, startH, endH int, status entity.ReservationStatus) *entity.Reservation {
		r := activeRes(id, []string{"S1"}, startH, endH)
		r.UserID = "u1"
		r.Status = status
		return r
	}

	m, repo, _ := newManager(false,
		mine("cancelled-future", 9, 10, entity.ReservationStatusCancelled),
		mine("active-future", 11, 12, entity.ReservationStatusActive),
		mine("pending-future", 12, 13, entity.ReservationStatusPending),
		activeRes("someone-else-cancelled", []string{"S2"}, 9, 10),
	)
	repo.items["someone-else-cancelled"].Status = entity.ReservationStatusCancelled

	deleted, err := m.PurgeForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PurgeForUser: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, ok := repo.items["cancelled-future"]; ok {
		t.Error("cancelled reservation still present")
	}
	if repo.count() != 3 {
		t.Errorf("remaining = %d, want 3", repo.count())
	}
}

func TestReservationManager_PurgeAllPastKeepsUpcoming(t *testing.T) {
	t.Parallel()

	ended := activeRes("ended", []string{"S1"}, 5, 6)
	endedCancelled := activeRes("ended-cancelled", []string{"S2"}, 4, 5)
	endedCancelled.Status = entity.ReservationStatusCancelled
	upcomingCancelled := activeRes("upcoming-cancelled", []string{"S1"}, 20, 21)
	upcomingCancelled.Status = entity.ReservationStatusCancelled
	upcoming := activeRes("upcoming", []string{"S3"}, 9, 10)

	// clock is at 07:00
	m, repo, _ := newManager(false, ended, endedCancelled, upcomingCancelled, upcoming)

	deleted, err := m.PurgeAllPast(context.Background())
	if err != nil {
		t.Fatalf("PurgeAllPast: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	for _, id := range []string{"upcoming-cancelled", "upcoming"} {
		if _, ok := repo.items[id]; !ok {
			t.Errorf("%s was purged, only ended reservations should go", id)
		}
	}
}

func TestReservationManager_PurgeForUserEnded(t *testing.T) {
	t.Parallel()

	ended := activeRes("ended", []string{"S1"}, 5, 6)
	ended.UserID = "u1"

	m, _, _ := newManager(false, ended)

	deleted, err := m.PurgeForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PurgeForUser: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
}

func TestReservationManager_HistoryOrder(t *testing.T) {
	t.Parallel()

	mk := func(id string, startH int) *entity.Reservation {
		r := activeRes(id, []string{"S1"}, startH, startH+1)
		r.UserID = "u1"
		return r
	}
	m, _, _ := newManager(false, mk("early", 8), mk("late", 15), mk("mid", 11))

	list, err := m.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	var got []string
	for _, r := range list {
		got = append(got, r.ID)
	}
	if want := []string{"late", "mid", "early"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}
