package builder

import (
	"encoding/json"
	"fmt"
)

const parseInputInstructions = `You are a product sourcing analyst. Given a short
free-text description of a consumer product category, return a JSON object with
exactly these fields:

{
  "label": "human-readable category name",
  "example_products": ["3-6 concrete example products"],
  "target_markets": ["likely destination markets, e.g. US, EU"],
  "typical_hts_codes": ["probable HTS codes, digits and dots only"]
}

Return only the JSON object.`

const researchInstructions = `You are a trade-compliance researcher. Given a
product category, return a JSON object with exactly these fields:

{
  "typical_hts_codes": ["HTS codes commonly used for this category"],
  "required_regulations": ["regulations and standards legally required to import and sell"],
  "testing_requirements": ["lab tests needed to demonstrate compliance"],
  "high_risk_flags": ["known sourcing and compliance risks"],
  "references": ["URLs of authoritative sources"],
  "supplier_types": ["kinds of factories that make this category"],
  "must_have_certificates": ["certificates a factory must hold"],
  "nice_to_have_certificates": ["certificates that signal a stronger factory"],
  "sample_questions": ["questions to ask a candidate factory"],
  "common_red_flags": ["warning signs when vetting factories"],
  "search_filters": ["filters to apply when searching supplier directories"]
}

Every list must reflect real, current requirements. Return only the JSON object.`

const verifyInstructions = `You are a trade-compliance reviewer. You receive a
research draft for a product category. Cross-check every HTS code, regulation,
and certificate name; remove anything fabricated or inapplicable; correct
identifiers that are wrong. Return the corrected draft as a JSON object in the
identical shape. Return only the JSON object.`

func parseInputPrompt(description string) string {
	return fmt.Sprintf("Category description: %s", description)
}

func researchPrompt(label string, examples []string) string {
	return fmt.Sprintf("Category: %s\nExample products: %s", label, joinList(examples))
}

func verifyPrompt(label string, draft ResearchData) string {
	encoded, err := json.Marshal(draft)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf("Category: %s\nResearch draft:\n%s", label, encoded)
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "(none provided)"
	}
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
