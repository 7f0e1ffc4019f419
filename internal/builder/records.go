package builder

import (
	"strings"

	"github.com/caravel-labs/caravel/internal/knowledge"
)

// buildRecords assembles the two final knowledge records from the parsed
// input and the verified research, preferring verified values and falling
// back to the parsed input where verification omitted a field.
func buildRecords(id string, parsed ParsedInput, verified ResearchData) (knowledge.ComplianceRule, knowledge.VettingHints) {
	label := parsed.Label
	if label == "" {
		label = labelFromID(id)
	}

	rule := knowledge.ComplianceRule{
		ID:                  id,
		Label:               label,
		ExampleProducts:     parsed.ExampleProducts,
		TargetMarkets:       parsed.TargetMarkets,
		TypicalHTSCodes:     fallback(verified.TypicalHTSCodes, parsed.TypicalHTSCodes),
		RequiredRegulations: verified.RequiredRegulations,
		TestingRequirements: verified.TestingRequirements,
		HighRiskFlags:       verified.HighRiskFlags,
		References:          verified.References,
	}

	hints := knowledge.VettingHints{
		ID:                     id,
		Label:                  label,
		SupplierTypes:          verified.SupplierTypes,
		MustHaveCertificates:   verified.MustHaveCertificates,
		NiceToHaveCertificates: verified.NiceToHaveCertificates,
		SampleQuestions:        verified.SampleQuestions,
		CommonRedFlags:         verified.CommonRedFlags,
		SearchFilters:          verified.SearchFilters,
	}

	return rule, hints
}

func fallback(primary, secondary []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return secondary
}

func labelFromID(id string) string {
	words := strings.Split(id, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
