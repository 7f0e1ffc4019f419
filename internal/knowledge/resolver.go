package knowledge

import "strings"

// minTokenLength excludes short stopword-like tokens from name matching.
const minTokenLength = 3

// resolve applies the two-stage matching algorithm: HTS prefix containment
// first, product-name token fallback second. The first matching rule in
// collection order wins; there is no cross-method scoring.
func resolve(rules []ComplianceRule, productName, htsCode, market string) *ComplianceRule {
	if code := normalizeHTS(htsCode); code != "" {
		for i := range rules {
			if !marketMatches(&rules[i], market) {
				continue
			}
			if htsMatches(&rules[i], code) {
				return &rules[i]
			}
		}
	}

	tokens := nameTokens(productName)
	if len(tokens) == 0 {
		return nil
	}

	for i := range rules {
		if !marketMatches(&rules[i], market) {
			continue
		}

		haystack := strings.ToLower(
			rules[i].Label + " " + strings.Join(rules[i].ExampleProducts, " "),
		)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				return &rules[i]
			}
		}
	}

	return nil
}

// htsMatches tests bidirectional prefix containment so a 4-digit heading
// matches a stored 10-digit code and vice versa.
func htsMatches(rule *ComplianceRule, code string) bool {
	for _, candidate := range rule.TypicalHTSCodes {
		normalized := normalizeHTS(candidate)
		if normalized == "" {
			continue
		}
		if strings.HasPrefix(code, normalized) || strings.HasPrefix(normalized, code) {
			return true
		}
	}
	return false
}

// marketMatches accepts a rule when no market filter is supplied, or when any
// target market overlaps the requested market as a case-insensitive substring
// in either direction.
func marketMatches(rule *ComplianceRule, market string) bool {
	if market == "" {
		return true
	}

	requested := strings.ToLower(market)
	for _, target := range rule.TargetMarkets {
		t := strings.ToLower(target)
		if strings.Contains(t, requested) || strings.Contains(requested, t) {
			return true
		}
	}
	return false
}

// normalizeHTS strips everything but digits and dots from an HTS code.
func normalizeHTS(code string) string {
	var b strings.Builder
	for _, r := range code {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameTokens splits a product name into lowercase tokens, discarding tokens
// too short to match meaningfully.
func nameTokens(productName string) []string {
	fields := strings.Fields(strings.ToLower(productName))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
