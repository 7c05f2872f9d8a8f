package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"smartclub/internal/data/entity"
	"smartclub/internal/dto/request"
	"smartclub/pkg/lock"
)

func reserveReq(seats ...string) *request.ReserveRequest {
	return &request.ReserveRequest{
		ClubID:  "club-1",
		SeatIDs: seats,
		Start:   at(9, 0),
		End:     at(10, 0),
	}
}

func TestBookingService_ReserveResolvesPackagePrice(t *testing.T) {
	t.Parallel()

	f := newFixture(false)
	req := reserveReq("S2")
	req.PackageID = strPtr("standard")

	resp, err := f.service.Booking.Reserve(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if resp.TotalPrice == nil || *resp.TotalPrice != 1000 {
		t.Fatalf("total price = %v, want 1000", resp.TotalPrice)
	}
	if resp.Status != entity.ReservationStatusPending {
		t.Errorf("status = %s, want PENDING", resp.Status)
	}
	if resp.UserID != "u1" {
		t.Errorf("user id = %q", resp.UserID)
	}
	if f.reservations.count() != 1 {
		t.Errorf("stored %d reservations, want 1", f.reservations.count())
	}
}

func TestBookingService_ReservePriceSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seats     []string
		packageID *string
		supplied  *int
		want      *int
	}{
		{name: "supplied total wins", seats: []string{"S2"}, packageID: strPtr("standard"), supplied: intPtr(700), want: intPtr(700)},
		{name: "exact alias per seat", seats: []string{"S1", "S2"}, packageID: strPtr("vip"), want: intPtr(5000)},
		{name: "no package leaves total unset", seats: []string{"S3"}},
		{name: "unresolvable package", seats: []string{"S3"}, packageID: strPtr("!!!")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			req := reserveReq(tt.seats...)
			req.PackageID = tt.packageID
			req.TotalPrice = tt.supplied

			resp, err := f.service.Booking.Reserve(context.Background(), "u1", req)
			if err != nil {
				t.Fatalf("Reserve: %v", err)
			}

			switch {
			case tt.want == nil && resp.TotalPrice != nil:
				t.Errorf("total price = %d, want unset", *resp.TotalPrice)
			case tt.want != nil && (resp.TotalPrice == nil || *resp.TotalPrice != *tt.want):
				t.Errorf("total price = %v, want %d", resp.TotalPrice, *tt.want)
			}
		})
	}
}

func TestBookingService_ReserveRejects(t *testing.T) {
	t.Parallel()

	taken := activeRes("taken", []string{"S1"}, 9, 10)

	tests := []struct {
		name    string
		userID  string
		req     *request.ReserveRequest
		wantErr error
	}{
		{name: "no identity", userID: "", req: reserveReq("S2"), wantErr: ErrUnauthorized},
		{name: "empty seats", userID: "u1", req: reserveReq(), wantErr: ErrValidation},
		{name: "end before start", userID: "u1", req: &request.ReserveRequest{
			ClubID: "club-1", SeatIDs: []string{"S2"}, Start: at(10, 0), End: at(9, 0),
		}, wantErr: ErrValidation},
		{name: "unknown club", userID: "u1", req: &request.ReserveRequest{
			ClubID: "club-x", SeatIDs: []string{"S2"}, Start: at(9, 0), End: at(10, 0),
		}, wantErr: ErrClubNotFound},
		{name: "seat of another club", userID: "u1", req: reserveReq("S9"), wantErr: ErrSeatNotFound},
		{name: "seat taken", userID: "u1", req: reserveReq("S1", "S2"), wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false, taken)

			_, err := f.service.Booking.Reserve(context.Background(), tt.userID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if f.reservations.count() != 1 {
				t.Errorf("stored %d reservations, want only the seeded one", f.reservations.count())
			}
		})
	}
}

func TestBookingService_ReserveConflictCarriesReservations(t *testing.T) {
	t.Parallel()

	f := newFixture(false, activeRes("taken", []string{"S1"}, 9, 10))

	_, err := f.service.Booking.Reserve(context.Background(), "u1", reserveReq("S1"))

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
	if len(conflict.Conflicts) != 1 || conflict.Conflicts[0].ID != "taken" {
		t.Fatalf("conflicts = %v", conflict.Conflicts)
	}
}

func TestBookingService_TouchingWindowIsFree(t *testing.T) {
	t.Parallel()

	f := newFixture(false, activeRes("before", []string{"S1"}, 8, 9))

	if _, err := f.service.Booking.Reserve(context.Background(), "u1", reserveReq("S1")); err != nil {
		t.Fatalf("Reserve right after another booking: %v", err)
	}
}

func TestBookingService_ReserveClubBusy(t *testing.T) {
	t.Parallel()

	f := newFixture(true)
	release, err := f.locker.Acquire(context.Background(), lock.ClubKey("club-1"))
	if err != nil {
		t.Fatalf("hold club lock: %v", err)
	}
	defer release()

	if _, err := f.service.Booking.Reserve(context.Background(), "u1", reserveReq("S2")); !errors.Is(err, ErrClubBusy) {
		t.Fatalf("err = %v, want ErrClubBusy", err)
	}
	if f.reservations.count() != 0 {
		t.Fatalf("stored %d reservations while the club was locked", f.reservations.count())
	}
}

func TestBookingService_ConcurrentReserveSingleWinner(t *testing.T) {
	t.Parallel()

	f := newFixture(true)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Booking.Reserve(context.Background(), "u1", reserveReq("S2"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != workers-1 {
		t.Fatalf("succeeded = %d, conflicts = %d", succeeded, conflicts)
	}
}

func TestBookingService_CancelOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(false, activeRes("r1", []string{"S1"}, 9, 10))
	ctx := context.Background()

	if _, err := f.service.Booking.Cancel(ctx, "u1", &request.CancelRequest{ReservationID: "r1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := f.service.Booking.Cancel(ctx, "user-other", &request.CancelRequest{ReservationID: "missing"}); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}

	resp, err := f.service.Booking.Cancel(ctx, "user-other", &request.CancelRequest{ReservationID: "r1"})
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if resp.Status != entity.ReservationStatusCancelled {
		t.Fatalf("status = %s", resp.Status)
	}

	again, err := f.service.Booking.Cancel(ctx, "user-other", &request.CancelRequest{ReservationID: "r1"})
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if again.Status != entity.ReservationStatusCancelled {
		t.Fatalf("second cancel status = %s", again.Status)
	}
}

func TestBookingService_HistoryScopes(t *testing.T) {
	t.Parallel()

	mine := func(id string, startH, endH int, status entity.ReservationStatus) *entity.Reservation {
		r := activeRes(id, []string{"S1"}, startH, endH)
		r.UserID = "u1"
		r.Status = status
		return r
	}

	// clock is at 07:00
	f := newFixture(false,
		mine("ended", 5, 6, entity.ReservationStatusActive),
		mine("upcoming", 9, 10, entity.ReservationStatusActive),
		mine("pending", 11, 12, entity.ReservationStatusPending),
		mine("cancelled", 13, 14, entity.ReservationStatusCancelled),
		activeRes("foreign", []string{"S2"}, 9, 10),
	)

	tests := []struct {
		scope request.HistoryScope
		want  []string
	}{
		{scope: "", want: []string{"cancelled", "pending", "upcoming", "ended"}},
		{scope: request.HistoryScopeActive, want: []string{"pending", "upcoming"}},
		{scope: request.HistoryScopePast, want: []string{"cancelled", "ended"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			list, err := f.service.Booking.History(context.Background(), "u1", &request.HistoryRequest{Scope: tt.scope})
			if err != nil {
				t.Fatalf("History: %v", err)
			}

			got := make([]string, 0, len(list))
			for _, r := range list {
				got = append(got, r.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if _, err := f.service.Booking.History(context.Background(), "u1", &request.HistoryRequest{Scope: "later"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown scope err = %v, want ErrValidation", err)
	}
}

func TestBookingService_Availability(t *testing.T) {
	t.Parallel()

	f := newFixture(false, activeRes("r1", []string{"S1"}, 9, 10))
	ctx := context.Background()

	snap, err := f.service.Booking.Availability(ctx, &request.AvailabilityRequest{
		ClubID: "club-1", Start: at(8, 0), End: at(9, 30),
	})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if snap.AvailableCount != 2 || snap.AvailableVIPCount != 0 {
		t.Fatalf("available = %d, vip = %d", snap.AvailableCount, snap.AvailableVIPCount)
	}

	check, err := f.service.Booking.CheckConflicts(ctx, &request.AvailabilityRequest{
		ClubID: "club-1", Start: at(8, 0), End: at(9, 30), SeatIDs: []string{"S1", "S1", "S3"},
	})
	if err != nil {
		t.Fatalf("CheckConflicts: %v", err)
	}
	if check.Available || len(check.Conflicts) != 1 {
		t.Fatalf("available = %v, conflicts = %d", check.Available, len(check.Conflicts))
	}
	if len(check.SeatIDs) != 2 {
		t.Errorf("seat ids = %v, want duplicates dropped", check.SeatIDs)
	}

	if _, err := f.service.Booking.Availability(ctx, &request.AvailabilityRequest{
		ClubID: "club-x", Start: at(8, 0), End: at(9, 0),
	}); !errors.Is(err, ErrClubNotFound) {
		t.Fatalf("unknown club err = %v", err)
	}
}

func TestBookingService_PurgePast(t *testing.T) {
	t.Parallel()

	cancelled := activeRes("cancelled", []string{"S1"}, 9, 10)
	cancelled.UserID = "u1"
	cancelled.Status = entity.ReservationStatusCancelled
	kept := activeRes("kept", []string{"S2"}, 9, 10)
	kept.UserID = "u1"

	f := newFixture(false, cancelled, kept)

	resp, err := f.service.Booking.PurgePast(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PurgePast: %v", err)
	}
	if resp.Deleted != 1 {
		t.Fatalf("deleted = %d, want 1", resp.Deleted)
	}

	if _, err := f.service.Booking.PurgePast(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
