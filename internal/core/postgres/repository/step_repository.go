package repository

import (
	"context"
	"errors"
	"time"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stepRepository struct {
	db *gorm.DB
}

func NewStepRepository(db *gorm.DB) ports.StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) GetByID(ctx context.Context, orgID, stepID uuid.UUID) (*domain.StepExecution, error) {
	var step domain.StepExecution
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", stepID, orgID).
		First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *stepRepository) Claim(ctx context.Context, orgID, stepID uuid.UUID, version int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.StepExecution{}).
		Where("id = ? AND org_id = ? AND version = ?", stepID, orgID, version).
		Updates(map[string]interface{}{
			"status":     domain.StepRunning,
			"started_at": time.Now(),
			"version":    version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *stepRepository) Complete(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&domain.StepExecution{}).
		Where("id = ? AND org_id = ?", stepID, orgID).
		Updates(map[string]interface{}{
			"status":       domain.StepCompleted,
			"output_data":  output,
			"completed_at": time.Now(),
		}).Error
}

func (r *stepRepository) Wait(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&domain.StepExecution{}).
		Where("id = ? AND org_id = ?", stepID, orgID).
		Updates(map[string]interface{}{
			"status":      domain.StepWaitingUser,
			"output_data": output,
		}).Error
}

func (r *stepRepository) Fail(ctx context.Context, orgID, stepID uuid.UUID, message string) error {
	return r.db.WithContext(ctx).
		Model(&domain.StepExecution{}).
		Where("id = ? AND org_id = ?", stepID, orgID).
		Updates(map[string]interface{}{
			"status":        domain.StepFailed,
			"error_message": message,
			"completed_at":  time.Now(),
		}).Error
}

// CompleteWaiting finalizes a paused step. The status guard makes the second
// of two racing resumes a 0-row no-op instead of a double-advance.
func (r *stepRepository) CompleteWaiting(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.StepExecution{}).
		Where("id = ? AND org_id = ? AND status = ?", stepID, orgID, domain.StepWaitingUser).
		Updates(map[string]interface{}{
			"status":       domain.StepCompleted,
			"output_data":  output,
			"completed_at": time.Now(),
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
