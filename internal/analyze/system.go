package analyze

import "context"

// System defines the public contract for product analysis operations.
type System interface {
	Analyze(ctx context.Context, cmd Command) (*Analysis, error)
}
