package limits

import (
	"errors"
	"net/http"
)

// Domain errors for limit-event operations.
var (
	ErrNotFound      = errors.New("limit event not found")
	ErrDuplicate     = errors.New("limit event already exists")
	ErrInvalidAction = errors.New("invalid limit event action")
)

// MapHTTPStatus maps limit-event domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidAction) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
