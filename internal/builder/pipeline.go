package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/pkg/formatting"
	"github.com/caravel-labs/caravel/pkg/llm"
)

// Builder runs the per-category pipeline:
// parse-input, research, verify, build-records, merge, commit.
//
// Research and verify may run concurrently across categories; the merge
// stage serializes on mergeMu because both knowledge files are shared
// read-modify-write state.
type Builder struct {
	client         llm.Client
	compliancePath string
	vettingPath    string
	repoDir        string
	logger         *slog.Logger
	mergeMu        sync.Mutex
}

// Result reports one successfully built category.
type Result struct {
	CategoryID string
	Rule       knowledge.ComplianceRule
	Hints      knowledge.VettingHints
}

func New(client llm.Client, compliancePath, vettingPath, repoDir string, logger *slog.Logger) *Builder {
	return &Builder{
		client:         client,
		compliancePath: compliancePath,
		vettingPath:    vettingPath,
		repoDir:        repoDir,
		logger:         logger.With("system", "builder"),
	}
}

// Build runs the full pipeline for one category description, including a
// per-category commit. Commit failure is logged, never returned.
func (b *Builder) Build(ctx context.Context, description string) (*Result, error) {
	result, err := b.run(ctx, description, false)
	if err != nil {
		return nil, err
	}

	if err := b.Commit(fmt.Sprintf("knowledge: add %s", result.CategoryID)); err != nil {
		b.logger.Warn("commit failed", "category", result.CategoryID, "error", err)
	}
	return result, nil
}

// run executes every stage except commit. sortByID controls whether the
// merge re-sorts both documents, which the bulk path requests to keep
// diffs stable.
func (b *Builder) run(ctx context.Context, description string, sortByID bool) (*Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	id := Slugify(description)
	logger := b.logger.With("category", id)
	logger.Info("building category", "description", description)

	parsed, err := b.parseInput(ctx, description)
	if err != nil {
		return nil, err
	}

	draft, err := b.research(ctx, id, parsed)
	if err != nil {
		return nil, err
	}

	verified, err := b.verify(ctx, id, parsed, draft)
	if err != nil {
		return nil, err
	}

	rule, hints := buildRecords(id, parsed, verified)

	if err := b.merge(rule, hints, sortByID); err != nil {
		return nil, fmt.Errorf("merging category %s: %w", id, err)
	}

	logger.Info("category built",
		"regulations", len(rule.RequiredRegulations),
		"hts_codes", len(rule.TypicalHTSCodes))

	return &Result{CategoryID: id, Rule: rule, Hints: hints}, nil
}

func (b *Builder) parseInput(ctx context.Context, description string) (ParsedInput, error) {
	raw, err := b.client.Complete(ctx, llm.Request{
		Instructions: parseInputInstructions,
		Prompt:       parseInputPrompt(description),
		JSON:         true,
	})
	if err != nil {
		return ParsedInput{}, fmt.Errorf("%w: %w", ErrInputParse, err)
	}

	parsed, err := formatting.Parse[ParsedInput](raw)
	if err != nil {
		return ParsedInput{}, fmt.Errorf("%w: %w", ErrInputParse, err)
	}
	return parsed, nil
}

func (b *Builder) research(ctx context.Context, id string, parsed ParsedInput) (ResearchData, error) {
	label := parsed.Label
	if label == "" {
		label = id
	}

	raw, err := b.client.Complete(ctx, llm.Request{
		Instructions: researchInstructions,
		Prompt:       researchPrompt(label, parsed.ExampleProducts),
		JSON:         true,
	})
	if err != nil {
		return ResearchData{}, fmt.Errorf("%w: %w", ErrResearchParse, err)
	}

	draft, err := formatting.Parse[ResearchData](raw)
	if err != nil {
		return ResearchData{}, fmt.Errorf("%w: %w", ErrResearchParse, err)
	}
	return draft, nil
}

func (b *Builder) verify(ctx context.Context, id string, parsed ParsedInput, draft ResearchData) (ResearchData, error) {
	label := parsed.Label
	if label == "" {
		label = id
	}

	raw, err := b.client.Complete(ctx, llm.Request{
		Instructions: verifyInstructions,
		Prompt:       verifyPrompt(label, draft),
		JSON:         true,
	})
	if err != nil {
		return ResearchData{}, fmt.Errorf("%w: %w", ErrVerifyParse, err)
	}

	verified, err := formatting.Parse[ResearchData](raw)
	if err != nil {
		return ResearchData{}, fmt.Errorf("%w: %w", ErrVerifyParse, err)
	}
	return verified, nil
}

func (b *Builder) merge(rule knowledge.ComplianceRule, hints knowledge.VettingHints, sortByID bool) error {
	b.mergeMu.Lock()
	defer b.mergeMu.Unlock()

	if err := knowledge.MergeRule(b.compliancePath, rule, sortByID); err != nil {
		return err
	}
	return knowledge.MergeHints(b.vettingPath, hints, sortByID)
}
