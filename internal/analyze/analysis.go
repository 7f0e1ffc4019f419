// Package analyze implements the product analysis domain: the model-backed
// core analysis, knowledge resolution, and the cost and reasoning enrichment
// attached to each response.
package analyze

import "github.com/caravel-labs/caravel/internal/knowledge"

// ProductAnalysis is the structured core result returned by the model for
// one product description. Scores are on a 0-10 scale; EstimatedUnitCost is
// a formatted currency string as presented to the user.
type ProductAnalysis struct {
	ProductName       string   `json:"product_name"`
	HTSCode           string   `json:"hts_code"`
	Market            string   `json:"market,omitempty"`
	Summary           string   `json:"summary"`
	EstimatedUnitCost string   `json:"estimated_unit_cost"`
	RiskScore         float64  `json:"risk_score"`
	FeasibilityScore  float64  `json:"feasibility_score"`
	RegulationTags    []string `json:"regulation_tags,omitempty"`
}

// RegulationReason ties one required regulation to a product-specific
// justification.
type RegulationReason struct {
	Regulation string `json:"regulation"`
	Reason     string `json:"reason"`
}

// TestingCost is one canonical test with its US-dollar cost bounds.
type TestingCost struct {
	Test string  `json:"test"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// InitialOrderCost is the first-order cost rollup. MOQ is a fixed placeholder
// constant pending real sourcing data; callers must treat the rollup as
// illustrative, not authoritative.
type InitialOrderCost struct {
	UnitCost         float64 `json:"unit_cost"`
	MOQ              int     `json:"moq"`
	MinimumOrderCost float64 `json:"minimum_order_cost"`
	TestingCostTotal float64 `json:"testing_cost_total"`
	TotalInitialCost float64 `json:"total_initial_cost"`
}

// Analysis is the full response payload: the core analysis plus optional
// enrichment, all absent when no category matched.
type Analysis struct {
	ProductAnalysis
	ComplianceHints     *knowledge.ComplianceRule `json:"compliance_hints,omitempty"`
	FactoryVettingHints *knowledge.VettingHints   `json:"factory_vetting_hints,omitempty"`
	RegulationReasoning []RegulationReason        `json:"regulation_reasoning,omitempty"`
	TestingCostEstimate []TestingCost             `json:"testing_cost_estimate,omitempty"`
	InitialOrderCost    *InitialOrderCost         `json:"initial_order_cost,omitempty"`
}

// Command carries one analysis request. Image, when present, is a data URI
// forwarded to the vision model alongside the text input.
type Command struct {
	Input string
	Image string
}
