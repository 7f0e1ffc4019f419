package analyze

import (
	"strings"

	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/pkg/formatting"
)

// MOQ is a fixed minimum-order-quantity placeholder pending real sourcing data.
const MOQ = 500

type costBand struct {
	low  float64
	high float64
}

// testCosts maps canonical test names to US-dollar cost bounds.
var testCosts = map[string]costBand{
	"CPSIA Lead Content":          {150, 400},
	"CPSIA Phthalates":            {200, 450},
	"CPSIA Small Parts":           {50, 120},
	"ASTM F963 Toy Safety":        {300, 800},
	"FDA Food Contact Migration":  {250, 600},
	"FCC Part 15 EMC":             {800, 2500},
	"UL/ETL Electrical Safety":    {1500, 5000},
	"EN 71 Mechanical & Physical": {250, 550},
	"EN 71 Flammability":          {150, 350},
	"REACH SVHC Screening":        {300, 900},
	"Prop 65 Chemical Screening":  {200, 500},
	"Textile Flammability 16 CFR": {100, 300},
}

// regulationTests maps known regulation-name fragments to the canonical
// tests they imply. Matching is case-insensitive substring, not equality,
// because stored regulation strings carry qualifiers and citations. Order
// is significant: estimates list tests in table order.
var regulationTests = []struct {
	key   string
	tests []string
}{
	{"CPSIA", []string{"CPSIA Lead Content", "CPSIA Phthalates", "CPSIA Small Parts"}},
	{"ASTM F963", []string{"ASTM F963 Toy Safety"}},
	{"FDA", []string{"FDA Food Contact Migration"}},
	{"FCC", []string{"FCC Part 15 EMC"}},
	{"UL ", []string{"UL/ETL Electrical Safety"}},
	{"EN 71", []string{"EN 71 Mechanical & Physical", "EN 71 Flammability"}},
	{"REACH", []string{"REACH SVHC Screening"}},
	{"Prop 65", []string{"Prop 65 Chemical Screening"}},
	{"16 CFR 1610", []string{"Textile Flammability 16 CFR"}},
}

// EstimateTestingCosts derives the deduplicated testing-cost line items
// implied by a rule's required regulations. A regulation matching no known
// key contributes nothing; an unmatched rule yields an empty list, never an
// error. The result is a pure function of the rule's regulations.
func EstimateTestingCosts(rule *knowledge.ComplianceRule) []TestingCost {
	estimates := make([]TestingCost, 0)
	seen := make(map[string]bool)

	for _, regulation := range rule.RequiredRegulations {
		lowered := strings.ToLower(regulation)
		for _, mapping := range regulationTests {
			if !strings.Contains(lowered, strings.ToLower(mapping.key)) {
				continue
			}
			for _, test := range mapping.tests {
				if seen[test] {
					continue
				}
				seen[test] = true

				band := testCosts[test]
				estimates = append(estimates, TestingCost{
					Test: test,
					Low:  band.low,
					High: band.high,
				})
			}
		}
	}

	return estimates
}

// ComputeInitialOrderCost rolls up the first-order cost from a formatted
// landed unit cost and the high bound of every testing line item.
// Returns nil when the unit cost does not parse.
func ComputeInitialOrderCost(unitCost string, tests []TestingCost) *InitialOrderCost {
	unit, err := formatting.ParseCurrency(unitCost)
	if err != nil {
		return nil
	}

	var testingTotal float64
	for _, t := range tests {
		testingTotal += t.High
	}

	minimum := unit * MOQ
	return &InitialOrderCost{
		UnitCost:         unit,
		MOQ:              MOQ,
		MinimumOrderCost: minimum,
		TestingCostTotal: testingTotal,
		TotalInitialCost: minimum + testingTotal,
	}
}
