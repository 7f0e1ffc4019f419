package analyze

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrMissingInput   = errors.New("input is required")
	ErrAnalysisFailed = errors.New("analysis failed")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
