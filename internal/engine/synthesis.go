package engine

import (
	"context"
	"fmt"
	"time"

	"caseflow/internal/domain"
	"caseflow/internal/metrics"
)

// runSynthesis aggregates the bound analyses into a prompt, runs a light
// generation, and persists the result as a reviewable draft artifact.
func (o *Orchestrator) runSynthesis(ctx context.Context, ec ExecContext, step *domain.StepExecution, input domain.StepInput) (domain.SynthesisResult, error) {
	analyses, err := o.loadAnalyses(ctx, ec, input.DocumentIDs)
	if err != nil {
		return domain.SynthesisResult{}, err
	}

	prompt := synthesisPrompt(input.Config.Variant, analyses)
	content, err := o.generate(ctx, prompt, false)
	if err != nil {
		return domain.SynthesisResult{}, err
	}

	artifactID, err := o.artifacts.CreateDraftArtifact(ctx, ec.OrgID, ec.CreatedBy, step.StepName, ec.CaseID, ec.ExecutionID, content)
	if err != nil {
		return domain.SynthesisResult{}, fmt.Errorf("persist draft artifact: %w", err)
	}

	return domain.SynthesisResult{
		ArtifactID: artifactID.String(),
		Content:    content,
	}, nil
}

// generate wraps the backend call with latency metrics. The call blocks the
// worker goroutine; one outstanding generation per run at a time.
func (o *Orchestrator) generate(ctx context.Context, prompt string, deepThinking bool) (string, error) {
	start := time.Now()
	content, err := o.generator.Generate(ctx, prompt, deepThinking)
	metrics.GenerationDuration.WithLabelValues(fmt.Sprintf("%t", deepThinking)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("generation backend: %w", err)
	}
	return content, nil
}
