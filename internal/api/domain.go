package api

import (
	"github.com/caravel-labs/caravel/internal/analyze"
	"github.com/caravel-labs/caravel/internal/limits"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyze analyze.System
	Limits  limits.System
	Counter limits.Counter
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	limitsSystem := limits.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	analyzeSystem := analyze.New(
		runtime.LLM,
		runtime.Knowledge,
		runtime.Logger,
	)

	counter := limits.NewCounter(
		runtime.Limits.AnonymousDaily,
		runtime.Limits.UserDaily,
		runtime.Limits.Bypass,
	)

	return &Domain{
		Analyze: analyzeSystem,
		Limits:  limitsSystem,
		Counter: counter,
	}
}
