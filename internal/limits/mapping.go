package limits

import (
	"net/url"

	"github.com/caravel-labs/caravel/pkg/query"
	"github.com/caravel-labs/caravel/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "limit_events", "le").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("user_type", "UserType").
	Project("reason", "Reason").
	Project("action", "Action").
	Project("input", "Input").
	Project("user_agent", "UserAgent").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for limit-event queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Action   *string `json:"action,omitempty"`
	UserType *string `json:"user_type,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Action", f.Action).
		WhereEquals("UserType", f.UserType).
		WhereEquals("Reason", f.Reason)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("action"); a != "" {
		f.Action = &a
	}
	if u := values.Get("user_type"); u != "" {
		f.UserType = &u
	}
	if r := values.Get("reason"); r != "" {
		f.Reason = &r
	}

	return f
}

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	err := s.Scan(
		&e.ID,
		&e.UserID,
		&e.UserType,
		&e.Reason,
		&e.Action,
		&e.Input,
		&e.UserAgent,
		&e.CreatedAt,
	)
	return e, err
}
