package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/pkg/formatting"
	"github.com/caravel-labs/caravel/pkg/llm"
)

type service struct {
	client llm.Client
	store  *knowledge.Store
	logger *slog.Logger
}

// New creates the analysis system over the given model client and knowledge store.
func New(client llm.Client, store *knowledge.Store, logger *slog.Logger) System {
	return &service{
		client: client,
		store:  store,
		logger: logger.With("system", "analyze"),
	}
}

// Analyze runs the core model analysis, resolves the product against the
// knowledge store, and attaches enrichment. Enrichment is skipped entirely
// when no category matches; reasoning is best-effort and its failure never
// fails the request.
func (s *service) Analyze(ctx context.Context, cmd Command) (*Analysis, error) {
	req := llm.Request{
		Instructions: analysisInstructions,
		Prompt:       analysisPrompt(cmd.Input),
		JSON:         true,
	}
	if cmd.Image != "" {
		req.Images = []string{cmd.Image}
	}

	content, err := s.client.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	core, err := formatting.Parse[ProductAnalysis](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	analysis := &Analysis{ProductAnalysis: core}

	name := core.ProductName
	if name == "" {
		name = cmd.Input
	}

	rule := s.store.Resolve(name, core.HTSCode, core.Market)
	if rule == nil {
		s.logger.Info("no category match", "product", name, "hts", core.HTSCode)
		return analysis, nil
	}

	analysis.ComplianceHints = rule
	analysis.FactoryVettingHints = s.store.Hints(rule.ID)
	analysis.TestingCostEstimate = EstimateTestingCosts(rule)
	analysis.InitialOrderCost = ComputeInitialOrderCost(core.EstimatedUnitCost, analysis.TestingCostEstimate)
	analysis.RegulationReasoning = s.reasonRegulations(ctx, name, core.HTSCode, rule)

	s.logger.Info(
		"analysis enriched",
		"product", name,
		"category", rule.ID,
		"tests", len(analysis.TestingCostEstimate),
	)

	return analysis, nil
}

type reasoningResponse struct {
	Reasons []RegulationReason `json:"reasons"`
}

// reasonRegulations asks the model to justify each required regulation for
// the product. The returned list always covers every required regulation:
// entries the model omitted are backfilled with the category's label.
func (s *service) reasonRegulations(
	ctx context.Context,
	productName, htsCode string,
	rule *knowledge.ComplianceRule,
) []RegulationReason {
	if len(rule.RequiredRegulations) == 0 {
		return nil
	}

	content, err := s.client.Complete(ctx, llm.Request{
		Instructions: reasoningInstructions,
		Prompt:       reasoningPrompt(productName, htsCode, rule),
		JSON:         true,
	})
	if err != nil {
		s.logger.Warn("regulation reasoning unavailable", "category", rule.ID, "error", err)
		return fallbackReasons(rule)
	}

	parsed, err := formatting.Parse[reasoningResponse](content)
	if err != nil {
		s.logger.Warn("regulation reasoning unparseable", "category", rule.ID, "error", err)
		return fallbackReasons(rule)
	}

	covered := make(map[string]bool, len(parsed.Reasons))
	for _, reason := range parsed.Reasons {
		covered[reason.Regulation] = true
	}

	reasons := parsed.Reasons
	for _, regulation := range rule.RequiredRegulations {
		if !covered[regulation] {
			reasons = append(reasons, RegulationReason{
				Regulation: regulation,
				Reason:     fmt.Sprintf("Required for products in the %s category.", rule.Label),
			})
		}
	}

	return reasons
}

func fallbackReasons(rule *knowledge.ComplianceRule) []RegulationReason {
	reasons := make([]RegulationReason, 0, len(rule.RequiredRegulations))
	for _, regulation := range rule.RequiredRegulations {
		reasons = append(reasons, RegulationReason{
			Regulation: regulation,
			Reason:     fmt.Sprintf("Required for products in the %s category.", rule.Label),
		})
	}
	return reasons
}
