// Package usagelog implements the append-only NDJSON usage event log:
// a non-blocking writer on the request path and a fault-tolerant reader
// for the offline analytics jobs.
package usagelog

import (
	"time"

	"github.com/google/uuid"
)

// Event is one analyzed request's immutable usage record. Optional fields
// are nil when the analysis produced no value for them.
type Event struct {
	ID               uuid.UUID `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	RawInput         string    `json:"raw_input"`
	ProductName      *string   `json:"product_name,omitempty"`
	HTSCode          *string   `json:"hts_code,omitempty"`
	CategoryID       *string   `json:"category_id,omitempty"`
	Market           *string   `json:"market,omitempty"`
	RegulationTags   []string  `json:"regulation_tags,omitempty"`
	RiskScore        *float64  `json:"risk_score,omitempty"`
	FeasibilityScore *float64  `json:"feasibility_score,omitempty"`
}
