package llm

import "errors"

// Client construction and completion errors.
var (
	ErrMissingToken = errors.New("llm api token not configured")
	ErrNoChoices    = errors.New("model returned no choices")
)
