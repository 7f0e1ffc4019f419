package builder

// ParsedInput is the model's structured reading of one category
// description. The identifier itself is derived deterministically by
// Slugify, never by the model.
type ParsedInput struct {
	Label           string   `json:"label"`
	ExampleProducts []string `json:"example_products"`
	TargetMarkets   []string `json:"target_markets"`
	TypicalHTSCodes []string `json:"typical_hts_codes"`
}

// ResearchData is the draft compliance and vetting profile produced by the
// research stage and corrected in place by the verify stage.
type ResearchData struct {
	TypicalHTSCodes        []string `json:"typical_hts_codes"`
	RequiredRegulations    []string `json:"required_regulations"`
	TestingRequirements    []string `json:"testing_requirements"`
	HighRiskFlags          []string `json:"high_risk_flags"`
	References             []string `json:"references"`
	SupplierTypes          []string `json:"supplier_types"`
	MustHaveCertificates   []string `json:"must_have_certificates"`
	NiceToHaveCertificates []string `json:"nice_to_have_certificates"`
	SampleQuestions        []string `json:"sample_questions"`
	CommonRedFlags         []string `json:"common_red_flags"`
	SearchFilters          []string `json:"search_filters"`
}
