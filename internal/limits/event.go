package limits

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Action identifies the user interaction that produced a limit event.
type Action string

// Valid limit-event actions.
const (
	ActionLimitHit     Action = "limit_hit"
	ActionCTAPrimary   Action = "cta_primary_click"
	ActionCTASecondary Action = "cta_secondary_click"
)

var actions = []Action{
	ActionLimitHit,
	ActionCTAPrimary,
	ActionCTASecondary,
}

// ParseAction validates a string as a known limit-event action.
// Returns ErrInvalidAction if the value is not recognized.
func ParseAction(s string) (Action, error) {
	v := Action(s)
	if !slices.Contains(actions, v) {
		return "", ErrInvalidAction
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known action value.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseAction(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Event is a stored limit event: a quota hit or a conversion click recorded
// for lead analytics. It mirrors the limit_events table schema.
type Event struct {
	ID        uuid.UUID `json:"id"`
	UserID    *string   `json:"user_id"`
	UserType  string    `json:"user_type"`
	Reason    string    `json:"reason"`
	Action    Action    `json:"action"`
	Input     *string   `json:"input"`
	UserAgent *string   `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to record a limit event. UserID and
// UserAgent are populated server-side from the request, never trusted from
// the body.
type CreateCommand struct {
	Action   Action  `json:"action"`
	Reason   string  `json:"reason"`
	UserType string  `json:"userType"`
	Input    *string `json:"input,omitempty"`

	UserID    *string `json:"-"`
	UserAgent *string `json:"-"`
}
