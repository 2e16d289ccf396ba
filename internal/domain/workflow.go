package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExecutionStatus string

const (
	ExecutionPending     ExecutionStatus = "PENDING"
	ExecutionRunning     ExecutionStatus = "RUNNING"
	ExecutionWaitingUser ExecutionStatus = "WAITING_USER"
	ExecutionCompleted   ExecutionStatus = "COMPLETED"
	ExecutionFailed      ExecutionStatus = "FAILED"
)

// WorkflowExecution is one run of a template against a concrete document set.
// TotalSteps is fixed at creation and equals the number of StepExecution rows;
// the template's live step list is never re-read once a run exists.
type WorkflowExecution struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key"`
	OrgID uuid.UUID `gorm:"type:uuid;index;not null"`

	TemplateID   uuid.UUID      `gorm:"type:uuid;not null"`
	CaseID       *uuid.UUID     `gorm:"type:uuid;index"`
	CollectionID *uuid.UUID     `gorm:"type:uuid"`
	DocumentIDs  datatypes.JSON `gorm:"type:jsonb"`

	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	Status             ExecutionStatus `gorm:"type:varchar(20);index;default:'PENDING'"`
	CurrentStep        int             `gorm:"default:0"`
	TotalSteps         int             `gorm:"not null"`
	ProgressPercentage int             `gorm:"default:0"`
	Version            int             `gorm:"default:1"`

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func NewExecution(orgID, templateID, createdBy uuid.UUID, name string, totalSteps int) *WorkflowExecution {
	return &WorkflowExecution{
		ID:         uuid.New(),
		OrgID:      orgID,
		TemplateID: templateID,
		CreatedBy:  createdBy,
		Name:       name,
		Status:     ExecutionPending,
		TotalSteps: totalSteps,
		Version:    1,
		CreatedAt:  time.Now(),
	}
}

func (e *WorkflowExecution) IsFinished() bool {
	return e.Status == ExecutionCompleted || e.Status == ExecutionFailed
}

// ProgressPercent is recomputed only after a step fully completes, so
// progress freezes at the last completed step on WAITING_USER and FAILED.
func ProgressPercent(currentStep, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	return currentStep * 100 / totalSteps
}

// DocumentIDList decodes the JSONB document binding. An empty or null
// column decodes to an empty slice, never an error.
func (e *WorkflowExecution) DocumentIDList() []uuid.UUID {
	return decodeUUIDList(e.DocumentIDs)
}
