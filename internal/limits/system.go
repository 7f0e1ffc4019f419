package limits

import (
	"context"

	"github.com/caravel-labs/caravel/pkg/pagination"
)

// System defines the public contract for limit-event operations.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, cmd CreateCommand) (*Event, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Event], error)
}
