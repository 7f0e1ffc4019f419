package limits

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/caravel-labs/caravel/pkg/pagination"
	"github.com/caravel-labs/caravel/pkg/query"
	"github.com/caravel-labs/caravel/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a limit-event repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "limits"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, cmd CreateCommand) (*Event, error) {
	q := `
		INSERT INTO limit_events(id, user_id, user_type, reason, action, input, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, user_type, reason, action, input, user_agent, created_at`

	args := []any{
		uuid.New(),
		cmd.UserID,
		cmd.UserType,
		cmd.Reason,
		string(cmd.Action),
		cmd.Input,
		cmd.UserAgent,
	}

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("limit event recorded", "id", e.ID, "action", e.Action, "reason", e.Reason)
	return &e, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Event], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Input", "UserID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count limit events: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	events, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("query limit events: %w", err)
	}

	result := pagination.NewPageResult(events, total, page.Page, page.PageSize)
	return &result, nil
}
