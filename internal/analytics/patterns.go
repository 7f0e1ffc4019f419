package analytics

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/caravel-labs/caravel/internal/knowledge"
)

const (
	// DefaultMinComboCategories is the smallest combo worth reporting.
	DefaultMinComboCategories = 2

	topRequirementCount = 5
	topFlagCount        = 5
	topRegulationCount  = 3
	htsPrefixLength     = 4
)

// RegulationCombo is a set of categories sharing the exact same extracted
// regulation identifiers.
type RegulationCombo struct {
	Regulations            []string `json:"regulations"`
	Categories             []string `json:"categories"`
	AvgRiskScore           *float64 `json:"avgRiskScore,omitempty"`
	TopTestingRequirements []string `json:"topTestingRequirements,omitempty"`
	TopRiskFlags           []string `json:"topRiskFlags,omitempty"`
}

// HTSPattern summarizes the categories sharing a 4-digit HTS prefix.
type HTSPattern struct {
	Prefix         string   `json:"prefix"`
	Categories     []string `json:"categories"`
	TopRegulations []string `json:"topRegulations,omitempty"`
	AvgRiskScore   *float64 `json:"avgRiskScore,omitempty"`
}

// PatternReport is the combined output of both pattern extractions.
type PatternReport struct {
	GeneratedAt      time.Time         `json:"generatedAt"`
	RegulationCombos []RegulationCombo `json:"regulationCombos"`
	HTSPatterns      []HTSPattern      `json:"htsPatterns"`
}

// Known regulation acronyms matched case-insensitively inside free-text
// regulation descriptions. The match fragment for UL carries a trailing
// space so words like "rule" do not false-positive.
var regulationAcronyms = []struct {
	match string
	id    string
}{
	{"CPSIA", "CPSIA"},
	{"ASTM F963", "ASTM F963"},
	{"EN 71", "EN 71"},
	{"FDA", "FDA"},
	{"FCC", "FCC"},
	{"UL ", "UL"},
	{"REACH", "REACH"},
	{"ROHS", "RoHS"},
	{"PROP 65", "Prop 65"},
	{"16 CFR 1610", "16 CFR 1610"},
	{"FHSA", "FHSA"},
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ExtractRegulationID normalizes a free-text regulation description to a
// stable identifier: a known acronym when one appears, otherwise a slug of
// the leading words.
func ExtractRegulationID(regulation string) string {
	upper := strings.ToUpper(regulation)
	for _, acronym := range regulationAcronyms {
		if strings.Contains(upper, acronym.match) {
			return acronym.id
		}
	}

	slug := slugPattern.ReplaceAllString(strings.ToLower(regulation), "_")
	slug = strings.Trim(slug, "_")
	if parts := strings.SplitN(slug, "_", 4); len(parts) == 4 {
		slug = strings.Join(parts[:3], "_")
	}
	return slug
}

// BuildPatterns derives regulation-combo and HTS-prefix patterns from the
// compliance rules, joining per-category risk from the popularity report.
func BuildPatterns(rules []knowledge.ComplianceRule, popularity PopularityReport, minCategories int, now time.Time) PatternReport {
	if minCategories < 1 {
		minCategories = DefaultMinComboCategories
	}

	risk := make(map[string]float64)
	for _, item := range popularity.Items {
		if item.MeanRiskScore != nil {
			risk[item.Key] = *item.MeanRiskScore
		}
	}

	return PatternReport{
		GeneratedAt:      now,
		RegulationCombos: regulationCombos(rules, risk, minCategories),
		HTSPatterns:      htsPatterns(rules, risk),
	}
}

func regulationCombos(rules []knowledge.ComplianceRule, risk map[string]float64, minCategories int) []RegulationCombo {
	type comboAccumulator struct {
		regulations []string
		categories  []string
		riskSum     float64
		riskCount   int
		requirements map[string]int
		flags        map[string]int
	}

	combos := make(map[string]*comboAccumulator)

	for _, rule := range rules {
		ids := comboIdentifiers(rule.RequiredRegulations)
		if len(ids) == 0 {
			continue
		}

		key := strings.Join(ids, "|")
		acc, ok := combos[key]
		if !ok {
			acc = &comboAccumulator{
				regulations:  ids,
				requirements: make(map[string]int),
				flags:        make(map[string]int),
			}
			combos[key] = acc
		}

		acc.categories = append(acc.categories, rule.ID)
		if score, ok := risk[rule.ID]; ok {
			acc.riskSum += score
			acc.riskCount++
		}
		for _, req := range rule.TestingRequirements {
			acc.requirements[req]++
		}
		for _, flag := range rule.HighRiskFlags {
			acc.flags[flag]++
		}
	}

	out := make([]RegulationCombo, 0, len(combos))
	for _, acc := range combos {
		if len(acc.categories) < minCategories {
			continue
		}

		sort.Strings(acc.categories)
		combo := RegulationCombo{
			Regulations:            acc.regulations,
			Categories:             acc.categories,
			TopTestingRequirements: topTags(acc.requirements, topRequirementCount),
			TopRiskFlags:           topTags(acc.flags, topFlagCount),
		}
		if acc.riskCount > 0 {
			mean := acc.riskSum / float64(acc.riskCount)
			combo.AvgRiskScore = &mean
		}
		out = append(out, combo)
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Categories) != len(out[j].Categories) {
			return len(out[i].Categories) > len(out[j].Categories)
		}
		return strings.Join(out[i].Regulations, "|") < strings.Join(out[j].Regulations, "|")
	})

	return out
}

// comboIdentifiers extracts the deduplicated, sorted identifier set for
// one rule's regulations.
func comboIdentifiers(regulations []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, regulation := range regulations {
		id := ExtractRegulationID(regulation)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func htsPatterns(rules []knowledge.ComplianceRule, risk map[string]float64) []HTSPattern {
	type prefixAccumulator struct {
		categories  map[string]bool
		regulations map[string]int
		riskSum     float64
		riskCount   int
	}

	prefixes := make(map[string]*prefixAccumulator)

	for _, rule := range rules {
		counted := make(map[string]bool)
		for _, code := range rule.TypicalHTSCodes {
			digits := strings.Map(keepDigit, code)
			if len(digits) < htsPrefixLength {
				continue
			}
			prefix := digits[:htsPrefixLength]

			acc, ok := prefixes[prefix]
			if !ok {
				acc = &prefixAccumulator{
					categories:  make(map[string]bool),
					regulations: make(map[string]int),
				}
				prefixes[prefix] = acc
			}

			if acc.categories[rule.ID] {
				continue
			}
			acc.categories[rule.ID] = true

			for _, regulation := range rule.RequiredRegulations {
				if id := ExtractRegulationID(regulation); id != "" {
					acc.regulations[id]++
				}
			}
			if score, ok := risk[rule.ID]; ok && !counted[prefix] {
				counted[prefix] = true
				acc.riskSum += score
				acc.riskCount++
			}
		}
	}

	out := make([]HTSPattern, 0, len(prefixes))
	for prefix, acc := range prefixes {
		categories := make([]string, 0, len(acc.categories))
		for id := range acc.categories {
			categories = append(categories, id)
		}
		sort.Strings(categories)

		pattern := HTSPattern{
			Prefix:         prefix,
			Categories:     categories,
			TopRegulations: topTags(acc.regulations, topRegulationCount),
		}
		if acc.riskCount > 0 {
			mean := acc.riskSum / float64(acc.riskCount)
			pattern.AvgRiskScore = &mean
		}
		out = append(out, pattern)
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Categories) != len(out[j].Categories) {
			return len(out[i].Categories) > len(out[j].Categories)
		}
		return out[i].Prefix < out[j].Prefix
	})

	return out
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}
