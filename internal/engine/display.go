package engine

import (
	"context"
	"errors"
	"fmt"

	"caseflow/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// runDisplay gathers previously computed analyses for the bound documents,
// optionally with their action items and timeline events. Read-only.
func (o *Orchestrator) runDisplay(ctx context.Context, ec ExecContext, input domain.StepInput) (domain.DisplayResult, error) {
	analyses, err := o.loadAnalyses(ctx, ec, input.DocumentIDs)
	if err != nil {
		return domain.DisplayResult{}, err
	}

	result := domain.DisplayResult{Documents: analyses}

	analysisIDs := make([]uuid.UUID, 0, len(analyses))
	for _, a := range analyses {
		analysisIDs = append(analysisIDs, a.ID)
	}

	if input.Config.IncludeActionItems {
		items, err := o.caseboard.GetActionItems(ctx, ec.OrgID, analysisIDs)
		if err != nil {
			return domain.DisplayResult{}, fmt.Errorf("load action items: %w", err)
		}
		result.ActionItems = items
	}
	if input.Config.IncludeTimeline {
		events, err := o.caseboard.GetTimelineEvents(ctx, ec.OrgID, analysisIDs)
		if err != nil {
			return domain.DisplayResult{}, fmt.Errorf("load timeline events: %w", err)
		}
		result.Timeline = events
	}
	return result, nil
}

// loadAnalyses resolves the documents bound to a step. A document whose
// analysis is missing is skipped; partial data is acceptable and the step
// must not fail over one unanalyzed document.
func (o *Orchestrator) loadAnalyses(ctx context.Context, ec ExecContext, documentIDs []uuid.UUID) ([]domain.DocumentAnalysis, error) {
	analyses := make([]domain.DocumentAnalysis, 0, len(documentIDs))
	for _, docID := range documentIDs {
		analysis, err := o.analyses.GetDocumentAnalysis(ctx, ec.OrgID, docID)
		if errors.Is(err, domain.ErrNotFound) {
			o.logger.Debug("no analysis for document, skipping",
				zap.String("execution_id", ec.ExecutionID.String()),
				zap.String("document_id", docID.String()))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load analysis for document %s: %w", docID, err)
		}
		analyses = append(analyses, *analysis)
	}
	return analyses, nil
}
