package repository

import (
	"context"
	"errors"
	"time"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type executionRepository struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) ports.ExecutionRepository {
	return &executionRepository{db: db}
}

func (r *executionRepository) CreateWithSteps(ctx context.Context, execution *domain.WorkflowExecution, steps []domain.StepExecution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(execution).Error; err != nil {
			return err
		}
		if len(steps) > 0 {
			if err := tx.Create(&steps).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *executionRepository) GetByID(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, error) {
	var execution domain.WorkflowExecution
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", executionID, orgID).
		First(&execution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

func (r *executionRepository) GetWithSteps(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, []domain.StepExecution, error) {
	execution, err := r.GetByID(ctx, orgID, executionID)
	if err != nil {
		return nil, nil, err
	}

	var steps []domain.StepExecution
	err = r.db.WithContext(ctx).
		Where("execution_id = ? AND org_id = ?", executionID, orgID).
		Order("step_number ASC").
		Find(&steps).Error
	if err != nil {
		return nil, nil, err
	}
	return execution, steps, nil
}

// MarkRunning keeps the original started_at when re-entered on resume, and
// refuses to resurrect a terminal execution.
func (r *executionRepository) MarkRunning(ctx context.Context, orgID, executionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkflowExecution{}).
		Where("id = ? AND org_id = ? AND status NOT IN ?", executionID, orgID,
			[]domain.ExecutionStatus{domain.ExecutionCompleted, domain.ExecutionFailed}).
		Updates(map[string]interface{}{
			"status":     domain.ExecutionRunning,
			"started_at": gorm.Expr("COALESCE(started_at, ?)", time.Now()),
		}).Error
}

func (r *executionRepository) UpdateProgress(ctx context.Context, orgID, executionID uuid.UUID, currentStep, progress int) error {
	return r.db.WithContext(ctx).
		Model(&domain.WorkflowExecution{}).
		Where("id = ? AND org_id = ?", executionID, orgID).
		Updates(map[string]interface{}{
			"current_step":        currentStep,
			"progress_percentage": progress,
		}).Error
}

func (r *executionRepository) SetWaiting(ctx context.Context, orgID, executionID uuid.UUID) error {
	return r.updateStatus(ctx, orgID, executionID, domain.ExecutionWaitingUser, nil)
}

func (r *executionRepository) MarkCompleted(ctx context.Context, orgID, executionID uuid.UUID) error {
	now := time.Now()
	return r.updateStatus(ctx, orgID, executionID, domain.ExecutionCompleted, map[string]interface{}{
		"progress_percentage": 100,
		"completed_at":        &now,
	})
}

func (r *executionRepository) MarkFailed(ctx context.Context, orgID, executionID uuid.UUID) error {
	now := time.Now()
	return r.updateStatus(ctx, orgID, executionID, domain.ExecutionFailed, map[string]interface{}{
		"completed_at": &now,
	})
}

// updateStatus guards against overwriting a terminal status; once FAILED or
// COMPLETED an execution stays put even if a stale task reports in late.
func (r *executionRepository) updateStatus(ctx context.Context, orgID, executionID uuid.UUID, status domain.ExecutionStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": status}
	for k, v := range extra {
		updates[k] = v
	}
	return r.db.WithContext(ctx).
		Model(&domain.WorkflowExecution{}).
		Where("id = ? AND org_id = ? AND status NOT IN ?", executionID, orgID,
			[]domain.ExecutionStatus{domain.ExecutionCompleted, domain.ExecutionFailed}).
		Updates(updates).Error
}
