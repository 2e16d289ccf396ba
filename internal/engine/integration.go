package engine

import (
	"context"
	"fmt"

	"caseflow/internal/domain"
)

const (
	integrationDraft    = "draft"
	integrationResearch = "research"
)

// runIntegration persists a deep-thinking generation as a durable artifact.
// The sub-type picks the artifact kind: a draft session mirroring synthesis,
// or a research session. Research runs even with zero bound documents; the
// prompt just carries no document context.
func (o *Orchestrator) runIntegration(ctx context.Context, ec ExecContext, step *domain.StepExecution, input domain.StepInput) (domain.IntegrationResult, error) {
	analyses, err := o.loadAnalyses(ctx, ec, input.DocumentIDs)
	if err != nil {
		return domain.IntegrationResult{}, err
	}

	kind := input.Config.IntegrationType
	if kind == "" {
		kind = integrationDraft
	}

	switch kind {
	case integrationDraft:
		content, err := o.generate(ctx, generationPrompt(input.Config.Variant, analyses), true)
		if err != nil {
			return domain.IntegrationResult{}, err
		}
		artifactID, err := o.artifacts.CreateDraftArtifact(ctx, ec.OrgID, ec.CreatedBy, step.StepName, ec.CaseID, ec.ExecutionID, content)
		if err != nil {
			return domain.IntegrationResult{}, fmt.Errorf("persist draft artifact: %w", err)
		}
		return domain.IntegrationResult{Kind: integrationDraft, ArtifactID: artifactID.String(), Content: content}, nil

	case integrationResearch:
		content, err := o.generate(ctx, researchPrompt(input.Config.Variant, analyses), true)
		if err != nil {
			return domain.IntegrationResult{}, err
		}
		artifactID, err := o.artifacts.CreateResearchArtifact(ctx, ec.OrgID, ec.CreatedBy, step.StepName, ec.CaseID, ec.ExecutionID, content, len(input.DocumentIDs))
		if err != nil {
			return domain.IntegrationResult{}, fmt.Errorf("persist research artifact: %w", err)
		}
		return domain.IntegrationResult{Kind: integrationResearch, ArtifactID: artifactID.String(), Content: content}, nil

	default:
		return domain.IntegrationResult{}, fmt.Errorf("unknown integration type %q", kind)
	}
}
