package analyze

import (
	"fmt"
	"strings"

	"github.com/caravel-labs/caravel/internal/knowledge"
)

const analysisInstructions = `You are a sourcing analyst assessing a product for import feasibility.

Given a product description (and optionally a product photo), assess:
- The most likely product name and HTS classification
- The primary target market for the product
- A realistic landed unit cost estimate at typical overseas factory pricing
- Sourcing risk and feasibility on a 0-10 scale
- The regulations most likely to apply

Respond with a JSON object containing exactly these fields:
"product_name" (string), "hts_code" (string), "market" (string),
"summary" (string, 2-3 sentences), "estimated_unit_cost" (string, e.g. "$2.91"),
"risk_score" (number 0-10), "feasibility_score" (number 0-10),
"regulation_tags" (array of short regulation names).

Base the HTS code on the product's material and function. When uncertain,
prefer the 4-6 digit heading over a speculative 10-digit code.`

const reasoningInstructions = `You are a compliance analyst explaining why specific regulations apply to a product.

For each regulation listed, write one short sentence tying the regulation to
the specific product: what property of the product triggers the requirement
and what the regulation constrains. Do not invent regulations beyond the
provided list.

Respond with a JSON object of the shape:
{"reasons": [{"regulation": "...", "reason": "..."}]}`

func analysisPrompt(input string) string {
	return fmt.Sprintf("Analyze this product for sourcing:\n\n%s", input)
}

func reasoningPrompt(productName, htsCode string, rule *knowledge.ComplianceRule) string {
	return fmt.Sprintf(
		"Product: %s\nHTS code: %s\nCategory: %s\n\nRequired regulations:\n- %s",
		productName,
		htsCode,
		rule.Label,
		strings.Join(rule.RequiredRegulations, "\n- "),
	)
}
