package usecase

import (
	"errors"
	"fmt"

	"smartclub/internal/data/entity"
	"smartclub/pkg/utils"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("access denied")
	ErrClubNotFound        = errors.New("club not found")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrConflict            = errors.New("seats already reserved for this time")
	ErrInvalidTransition   = errors.New("invalid reservation status transition")
	ErrConcurrentUpdate    = errors.New("reservation was modified concurrently")
	ErrClubBusy            = errors.New("club is busy, try again")
	ErrPhoneTaken          = errors.New("phone already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account is deactivated")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)

// ConflictError carries the ACTIVE reservations that block a request.
// errors.Is(err, ErrConflict) holds for it.
type ConflictError struct {
	Conflicts []*entity.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %d conflicting reservation(s)", ErrConflict.Error(), len(e.Conflicts))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func validationError(errs map[string]string) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
}
