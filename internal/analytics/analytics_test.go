package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/caravel-labs/caravel/internal/analytics"
	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/internal/usagelog"
)

func strptr(s string) *string      { return &s }
func fptr(f float64) *float64      { return &f }
func at(day int) time.Time         { return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC) }

func sampleEvents() []usagelog.Event {
	return []usagelog.Event{
		{
			ID:               uuid.New(),
			Timestamp:        at(1),
			RawInput:         "baby teether",
			CategoryID:       strptr("baby_teether"),
			RiskScore:        fptr(6),
			FeasibilityScore: fptr(7),
			RegulationTags:   []string{"CPSIA", "FDA"},
		},
		{
			ID:             uuid.New(),
			Timestamp:      at(3),
			RawInput:       "silicone teether",
			CategoryID:     strptr("baby_teether"),
			RiskScore:      fptr(8),
			RegulationTags: []string{"CPSIA"},
		},
		{
			ID:         uuid.New(),
			Timestamp:  at(2),
			RawInput:   "desk lamp",
			CategoryID: strptr("led_desk_lamp"),
			RiskScore:  fptr(4),
		},
		{
			ID:        uuid.New(),
			Timestamp: at(5),
			RawInput:  "mystery gadget",
		},
	}
}

func TestBuildPopularity(t *testing.T) {
	now := at(10)
	report := analytics.BuildPopularity(sampleEvents(), now)

	if report.TotalEvents != 4 {
		t.Errorf("total events = %d, want 4", report.TotalEvents)
	}
	if len(report.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(report.Items))
	}

	top := report.Items[0]
	if top.Key != "baby_teether" {
		t.Fatalf("top key = %s, want baby_teether", top.Key)
	}
	if top.Count != 2 {
		t.Errorf("top count = %d, want 2", top.Count)
	}
	if !top.FirstSeen.Equal(at(1)) || !top.LastSeen.Equal(at(3)) {
		t.Errorf("seen window = %v..%v, want day 1..3", top.FirstSeen, top.LastSeen)
	}
	if top.MeanRiskScore == nil || *top.MeanRiskScore != 7 {
		t.Errorf("mean risk = %v, want 7", top.MeanRiskScore)
	}
	if top.MeanFeasibility == nil || *top.MeanFeasibility != 7 {
		t.Errorf("mean feasibility = %v, want 7", top.MeanFeasibility)
	}
	if len(top.TopRegulationTags) != 2 || top.TopRegulationTags[0] != "CPSIA" {
		t.Errorf("top tags = %v, want [CPSIA FDA]", top.TopRegulationTags)
	}

	// single-count ties break on recency: the raw-input event is newer
	if report.Items[1].Key != "mystery gadget" {
		t.Errorf("items[1] = %s, want mystery gadget", report.Items[1].Key)
	}
	if report.Items[2].MeanFeasibility != nil {
		t.Errorf("mean feasibility without samples = %v, want nil", report.Items[2].MeanFeasibility)
	}
}

func TestBuildPopularityDeterministic(t *testing.T) {
	now := at(10)
	first := analytics.BuildPopularity(sampleEvents(), now)
	second := analytics.BuildPopularity(sampleEvents(), now)

	if len(first.Items) != len(second.Items) {
		t.Fatalf("item counts differ: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].Key != second.Items[i].Key {
			t.Errorf("items[%d] order differs: %s vs %s", i, first.Items[i].Key, second.Items[i].Key)
		}
	}
}

func TestExtractRegulationID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"CPSIA lead content limits", "CPSIA"},
		{"Children's sleepwear flammability (16 CFR 1610)", "16 CFR 1610"},
		{"astm f963 toy safety standard", "ASTM F963"},
		{"Kids bedding labeling law of state", "kids_bedding_labeling"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := analytics.ExtractRegulationID(tt.input); got != tt.want {
				t.Errorf("ExtractRegulationID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func patternRules() []knowledge.ComplianceRule {
	return []knowledge.ComplianceRule{
		{
			ID:                  "baby_teether",
			Label:               "Baby Teether",
			TypicalHTSCodes:     []string{"3924.90.56"},
			RequiredRegulations: []string{"CPSIA lead content limits", "FDA food contact"},
			TestingRequirements: []string{"Third-party lab testing"},
			HighRiskFlags:       []string{"Choking hazard"},
		},
		{
			ID:                  "baby_spoon",
			Label:               "Baby Spoon",
			TypicalHTSCodes:     []string{"3924.10.40"},
			RequiredRegulations: []string{"CPSIA phthalate limits", "FDA food contact substances"},
			TestingRequirements: []string{"Third-party lab testing", "Migration testing"},
			HighRiskFlags:       []string{"Choking hazard"},
		},
		{
			ID:                  "led_desk_lamp",
			Label:               "LED Desk Lamp",
			TypicalHTSCodes:     []string{"9405.20.60"},
			RequiredRegulations: []string{"FCC Part 15", "UL 153 safety"},
		},
	}
}

func TestBuildPatternsRegulationCombos(t *testing.T) {
	popularity := analytics.PopularityReport{
		Items: []analytics.PopularityItem{
			{Key: "baby_teether", MeanRiskScore: fptr(6)},
			{Key: "baby_spoon", MeanRiskScore: fptr(8)},
		},
	}

	report := analytics.BuildPatterns(patternRules(), popularity, 2, at(10))

	// both baby categories normalize to the {CPSIA, FDA} combo; the lamp
	// combo has only one member and falls below the threshold
	if len(report.RegulationCombos) != 1 {
		t.Fatalf("combos = %d, want 1", len(report.RegulationCombos))
	}

	combo := report.RegulationCombos[0]
	if len(combo.Regulations) != 2 || combo.Regulations[0] != "CPSIA" || combo.Regulations[1] != "FDA" {
		t.Errorf("combo regulations = %v, want [CPSIA FDA]", combo.Regulations)
	}
	if len(combo.Categories) != 2 {
		t.Errorf("combo categories = %v, want 2 members", combo.Categories)
	}
	if combo.AvgRiskScore == nil || *combo.AvgRiskScore != 7 {
		t.Errorf("avg risk = %v, want 7", combo.AvgRiskScore)
	}
	if len(combo.TopTestingRequirements) == 0 || combo.TopTestingRequirements[0] != "Third-party lab testing" {
		t.Errorf("top testing requirements = %v, want Third-party lab testing first", combo.TopTestingRequirements)
	}
}

func TestBuildPatternsHTSPrefixes(t *testing.T) {
	report := analytics.BuildPatterns(patternRules(), analytics.PopularityReport{}, 2, at(10))

	if len(report.HTSPatterns) != 2 {
		t.Fatalf("hts patterns = %d, want 2", len(report.HTSPatterns))
	}

	// both baby categories share the 3924 heading
	top := report.HTSPatterns[0]
	if top.Prefix != "3924" {
		t.Fatalf("top prefix = %s, want 3924", top.Prefix)
	}
	if len(top.Categories) != 2 {
		t.Errorf("3924 categories = %v, want 2 members", top.Categories)
	}
	if len(top.TopRegulations) == 0 {
		t.Error("3924 top regulations empty")
	}

	if report.HTSPatterns[1].Prefix != "9405" {
		t.Errorf("second prefix = %s, want 9405", report.HTSPatterns[1].Prefix)
	}
}
