package engine

import (
	"context"

	"caseflow/internal/domain"
)

// runGeneration is the deep-thinking variant of synthesis. It persists
// nothing itself; the output is step data for a later step (typically
// INTEGRATION) to pick up.
func (o *Orchestrator) runGeneration(ctx context.Context, ec ExecContext, input domain.StepInput) (domain.GenerationResult, error) {
	analyses, err := o.loadAnalyses(ctx, ec, input.DocumentIDs)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	prompt := generationPrompt(input.Config.Variant, analyses)
	content, err := o.generate(ctx, prompt, true)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	return domain.GenerationResult{Content: content}, nil
}
