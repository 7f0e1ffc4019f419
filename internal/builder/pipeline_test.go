package builder_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/caravel-labs/caravel/internal/builder"
	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/pkg/llm"
)

const parsedInputJSON = `{
	"label": "Baby Teether",
	"example_products": ["silicone teething ring"],
	"target_markets": ["US"],
	"typical_hts_codes": ["3924.90.56"]
}`

const researchJSON = `{
	"typical_hts_codes": ["3924.90.56", "9503.00.00"],
	"required_regulations": ["CPSIA lead content limits", "Fabricated Regulation 99"],
	"testing_requirements": ["Third-party lab testing"],
	"high_risk_flags": ["Choking hazard"],
	"references": ["https://www.cpsc.gov"],
	"supplier_types": ["Silicone products factory"],
	"must_have_certificates": ["CPSIA test reports"],
	"sample_questions": ["Which lab tests your products?"],
	"common_red_flags": ["No US export history"],
	"search_filters": ["verified manufacturer"]
}`

// verifiedJSON drops the fabricated regulation and omits HTS codes so the
// record assembly falls back to the parsed input.
const verifiedJSON = `{
	"required_regulations": ["CPSIA lead content limits"],
	"testing_requirements": ["Third-party lab testing"],
	"high_risk_flags": ["Choking hazard"],
	"references": ["https://www.cpsc.gov"],
	"supplier_types": ["Silicone products factory"],
	"must_have_certificates": ["CPSIA test reports"],
	"sample_questions": ["Which lab tests your products?"],
	"common_red_flags": ["No US export history"],
	"search_filters": ["verified manufacturer"]
}`

// stageClient routes canned responses by pipeline stage and can be made to
// fail a single stage.
type stageClient struct {
	failStage string

	mu    sync.Mutex
	calls []string
}

func (c *stageClient) Complete(_ context.Context, req llm.Request) (string, error) {
	stage := "parse"
	switch {
	case strings.Contains(req.Instructions, "researcher"):
		stage = "research"
	case strings.Contains(req.Instructions, "reviewer"):
		stage = "verify"
	}

	c.mu.Lock()
	c.calls = append(c.calls, stage)
	c.mu.Unlock()

	if c.failStage == stage {
		return "the model rambled instead of returning JSON", nil
	}

	switch stage {
	case "parse":
		return parsedInputJSON, nil
	case "research":
		return researchJSON, nil
	default:
		return verifiedJSON, nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestBuilder(t *testing.T, client llm.Client) (*builder.Builder, string, string) {
	t.Helper()
	dir := t.TempDir()
	compliance := filepath.Join(dir, "compliance.json")
	vetting := filepath.Join(dir, "vetting.json")
	// empty repoDir disables the commit stage
	return builder.New(client, compliance, vetting, "", discardLogger()), compliance, vetting
}

func TestBuildMergesBothRecords(t *testing.T) {
	client := &stageClient{}
	b, compliance, vetting := newTestBuilder(t, client)

	result, err := b.Build(context.Background(), "baby teether")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if result.CategoryID != "baby_teether" {
		t.Errorf("category = %s, want baby_teether", result.CategoryID)
	}
	if len(client.calls) != 3 {
		t.Errorf("stages = %v, want parse, research, verify", client.calls)
	}

	store, err := knowledge.NewStore(compliance, vetting, discardLogger())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	rules := store.Rules()
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}

	rule := rules[0]
	if rule.Label != "Baby Teether" {
		t.Errorf("label = %s, want Baby Teether", rule.Label)
	}
	// verify removed the fabricated regulation
	if len(rule.RequiredRegulations) != 1 {
		t.Errorf("regulations = %v, want the single verified entry", rule.RequiredRegulations)
	}
	// verify omitted HTS codes, so the parsed-input codes survive
	if len(rule.TypicalHTSCodes) != 1 || rule.TypicalHTSCodes[0] != "3924.90.56" {
		t.Errorf("hts codes = %v, want parsed-input fallback", rule.TypicalHTSCodes)
	}

	hints := store.Hints("baby_teether")
	if hints == nil {
		t.Fatal("vetting hints missing")
	}
	if len(hints.MustHaveCertificates) != 1 {
		t.Errorf("certificates = %v, want 1", hints.MustHaveCertificates)
	}
}

func TestBuildEmptyDescription(t *testing.T) {
	b, _, _ := newTestBuilder(t, &stageClient{})

	if _, err := b.Build(context.Background(), "   "); !errors.Is(err, builder.ErrEmptyDescription) {
		t.Errorf("err = %v, want ErrEmptyDescription", err)
	}
}

func TestBuildStageFailures(t *testing.T) {
	tests := []struct {
		stage   string
		wantErr error
	}{
		{"parse", builder.ErrInputParse},
		{"research", builder.ErrResearchParse},
		{"verify", builder.ErrVerifyParse},
	}

	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			client := &stageClient{failStage: tt.stage}
			b, compliance, _ := newTestBuilder(t, client)

			_, err := b.Build(context.Background(), "baby teether")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			// a failed stage writes nothing
			store, err := knowledge.NewStore(compliance, filepath.Join(t.TempDir(), "v.json"), discardLogger())
			if err != nil {
				t.Fatalf("store init failed: %v", err)
			}
			if rules := store.Rules(); len(rules) != 0 {
				t.Errorf("rules = %d after failed build, want 0", len(rules))
			}
		})
	}
}

func TestRunBulkContinuesPastFailures(t *testing.T) {
	client := &stageClient{}
	b, compliance, _ := newTestBuilder(t, client)
	failedPath := filepath.Join(t.TempDir(), "failed.txt")

	summary, err := b.RunBulk(context.Background(), []string{"baby teether", "led desk lamp"}, builder.BulkOptions{
		Concurrency: 2,
		MaxRetries:  0,
		RetryDelay:  time.Millisecond,
		FailedPath:  failedPath,
	})
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	if len(summary.Built) != 2 {
		t.Errorf("built = %v, want 2 categories", summary.Built)
	}
	if len(summary.Failed) != 0 {
		t.Errorf("failed = %v, want none", summary.Failed)
	}

	store, err := knowledge.NewStore(compliance, filepath.Join(t.TempDir(), "v.json"), discardLogger())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	// every canned parse returns the same label, but the slug comes from the
	// description, so both categories land as separate records
	if rules := store.Rules(); len(rules) != 2 {
		t.Errorf("rules = %d, want 2", len(rules))
	}
}

func TestRunBulkRecordsExhaustedFailures(t *testing.T) {
	client := &stageClient{failStage: "verify"}
	b, _, _ := newTestBuilder(t, client)
	failedPath := filepath.Join(t.TempDir(), "failed.txt")

	summary, err := b.RunBulk(context.Background(), []string{"baby teether"}, builder.BulkOptions{
		Concurrency: 1,
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
		FailedPath:  failedPath,
	})
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	if len(summary.Failed) != 1 || summary.Failed[0] != "baby teether" {
		t.Errorf("failed = %v, want [baby teether]", summary.Failed)
	}

	// initial attempt plus two retries, three verify calls each preceded by
	// parse and research
	verifyCalls := 0
	for _, stage := range client.calls {
		if stage == "verify" {
			verifyCalls++
		}
	}
	if verifyCalls != 3 {
		t.Errorf("verify attempts = %d, want 3", verifyCalls)
	}

	descriptions, err := builder.ReadInputFile(failedPath)
	if err != nil {
		t.Fatalf("read failure file: %v", err)
	}
	if len(descriptions) != 1 || descriptions[0] != "baby teether" {
		t.Errorf("failure file = %v, want [baby teether]", descriptions)
	}
}

func TestReadInputFileSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.txt")
	content := "# comment\nbaby teether\n\n  \nled desk lamp\n# another\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	descriptions, err := builder.ReadInputFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := []string{"baby teether", "led desk lamp"}
	if len(descriptions) != len(want) {
		t.Fatalf("descriptions = %v, want %v", descriptions, want)
	}
	for i := range want {
		if descriptions[i] != want[i] {
			t.Errorf("descriptions[%d] = %q, want %q", i, descriptions[i], want[i])
		}
	}
}
