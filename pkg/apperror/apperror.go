package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the expected business outcomes. Anything that does not
// wrap one of these is treated as an internal failure: logged in full
// server-side, surfaced to the client as a generic message.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrNotFound also covers resources that exist but belong to another
	// organization; callers cannot distinguish the two cases.
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState marks a state-machine violation, e.g. resolving an
	// item that is not pending.
	ErrInvalidState = errors.New("invalid state")
)

func Unauthorized(msg string) error { return fmt.Errorf("%w: %s", ErrUnauthorized, msg) }

func Forbidden(msg string) error { return fmt.Errorf("%w: %s", ErrForbidden, msg) }

func NotFound(msg string) error { return fmt.Errorf("%w: %s", ErrNotFound, msg) }

func Validation(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }

func InvalidState(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidState, msg) }

// HTTPStatus maps a business error to its HTTP status code. Unrecognized
// errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Expected reports whether the error is one of the typed business outcomes
// whose message is safe to return to the client verbatim.
func Expected(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
