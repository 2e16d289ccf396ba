package repository

import (
	"context"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) ports.CaseDirectory {
	return &caseRepository{db: db}
}

func (r *caseRepository) GetCaseAssignees(ctx context.Context, orgID, caseID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.CaseAssignee{}).
		Where("org_id = ? AND case_id = ?", orgID, caseID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
