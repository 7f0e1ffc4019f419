// Package knowledge implements the category knowledge store: compliance
// rules and factory-vetting hints persisted as versioned JSON documents,
// resolved at request time by HTS code or product-name matching, and
// mutated offline by the knowledge builder.
package knowledge

// ComplianceRule describes the compliance profile of one product category.
// ID is the unique key pairing the rule with its VettingHints record.
type ComplianceRule struct {
	ID                  string   `json:"id"`
	Label               string   `json:"label"`
	ExampleProducts     []string `json:"example_products"`
	TargetMarkets       []string `json:"target_markets"`
	TypicalHTSCodes     []string `json:"typical_hts_codes"`
	RequiredRegulations []string `json:"required_regulations"`
	TestingRequirements []string `json:"testing_requirements"`
	HighRiskFlags       []string `json:"high_risk_flags"`
	References          []string `json:"references"`
}

// VettingHints describes factory-vetting guidance for one product category.
// ID matches the companion ComplianceRule.
type VettingHints struct {
	ID                     string   `json:"id"`
	Label                  string   `json:"label"`
	SupplierTypes          []string `json:"supplier_types"`
	MustHaveCertificates   []string `json:"must_have_certificates"`
	NiceToHaveCertificates []string `json:"nice_to_have_certificates"`
	SampleQuestions        []string `json:"sample_questions"`
	CommonRedFlags         []string `json:"common_red_flags"`
	SearchFilters          []string `json:"search_filters"`
}

// document is the on-disk shape of both knowledge files.
type document[T any] struct {
	Categories []T `json:"categories"`
}
