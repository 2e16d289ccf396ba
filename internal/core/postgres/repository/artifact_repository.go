package repository

import (
	"context"
	"time"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type artifactRepository struct {
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) ports.ArtifactSink {
	return &artifactRepository{db: db}
}

func (r *artifactRepository) CreateDraftArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string) (uuid.UUID, error) {
	draft := domain.DraftSession{
		ID:          uuid.New(),
		OrgID:       orgID,
		OwnerID:     ownerID,
		CaseID:      caseID,
		ExecutionID: executionID,
		Name:        name,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&draft).Error; err != nil {
		return uuid.Nil, err
	}
	return draft.ID, nil
}

func (r *artifactRepository) CreateResearchArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string, documentCount int) (uuid.UUID, error) {
	research := domain.ResearchSession{
		ID:            uuid.New(),
		OrgID:         orgID,
		OwnerID:       ownerID,
		CaseID:        caseID,
		ExecutionID:   executionID,
		Name:          name,
		Content:       content,
		DocumentCount: documentCount,
		CreatedAt:     time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&research).Error; err != nil {
		return uuid.Nil, err
	}
	return research.ID, nil
}
