package repository

import (
	"context"
	"errors"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository backs both the AnalysisStore and CaseboardStore
// ports with the tables the analysis pipeline writes.
func NewAnalysisRepository(db *gorm.DB) *analysisRepository {
	return &analysisRepository{db: db}
}

var _ ports.AnalysisStore = (*analysisRepository)(nil)
var _ ports.CaseboardStore = (*analysisRepository)(nil)

func (r *analysisRepository) GetDocumentAnalysis(ctx context.Context, orgID, documentID uuid.UUID) (*domain.DocumentAnalysis, error) {
	var analysis domain.DocumentAnalysis
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND org_id = ?", documentID, orgID).
		Order("created_at DESC").
		First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepository) GetActionItems(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.ActionItem, error) {
	if len(analysisIDs) == 0 {
		return nil, nil
	}
	var items []domain.ActionItem
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND analysis_id IN ?", orgID, analysisIDs).
		Find(&items).Error
	return items, err
}

func (r *analysisRepository) GetTimelineEvents(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.TimelineEvent, error) {
	if len(analysisIDs) == 0 {
		return nil, nil
	}
	var events []domain.TimelineEvent
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND analysis_id IN ?", orgID, analysisIDs).
		Order("event_date ASC").
		Find(&events).Error
	return events, err
}
