package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StepStatus string

const (
	StepPending     StepStatus = "PENDING"
	StepRunning     StepStatus = "RUNNING"
	StepCompleted   StepStatus = "COMPLETED"
	StepFailed      StepStatus = "FAILED"
	StepWaitingUser StepStatus = "WAITING_USER"
)

// StepType is a closed set. The orchestrator switches exhaustively over it;
// an unrecognized tag fails the step instead of falling through.
type StepType string

const (
	StepDisplay     StepType = "DISPLAY"
	StepSynthesis   StepType = "SYNTHESIS"
	StepGeneration  StepType = "GENERATION"
	StepIntegration StepType = "INTEGRATION"
	StepAction      StepType = "ACTION"
)

func ParseStepType(s string) (StepType, error) {
	switch t := StepType(s); t {
	case StepDisplay, StepSynthesis, StepGeneration, StepIntegration, StepAction:
		return t, nil
	}
	return "", fmt.Errorf("unknown step type %q", s)
}

// StepExecution is the persisted state of one step within one run.
// InputData is snapshotted at creation and never rewritten; OutputData is
// written once when the step completes, pauses, or fails.
type StepExecution struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ExecutionID uuid.UUID `gorm:"type:uuid;index;not null"`
	OrgID       uuid.UUID `gorm:"type:uuid;index;not null"`

	StepNumber int        `gorm:"not null"` // 1-based, contiguous within an execution
	StepName   string     `gorm:"type:varchar(255);not null"`
	StepType   StepType   `gorm:"type:varchar(20);not null"`
	Status     StepStatus `gorm:"type:varchar(20);index;default:'PENDING'"`

	InputData    datatypes.JSON `gorm:"type:jsonb"`
	OutputData   datatypes.JSON `gorm:"type:jsonb"`
	ErrorMessage string         `gorm:"type:text"`
	Version      int            `gorm:"default:1"`

	StartedAt   *time.Time
	CompletedAt *time.Time
}

func NewStepExecution(execution *WorkflowExecution, number int, def StepDefinition, input StepInput) (*StepExecution, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("snapshot step input: %w", err)
	}
	return &StepExecution{
		ID:          uuid.New(),
		ExecutionID: execution.ID,
		OrgID:       execution.OrgID,
		StepNumber:  number,
		StepName:    def.Name,
		StepType:    def.StepType,
		Status:      StepPending,
		InputData:   raw,
		Version:     1,
	}, nil
}

// StepConfig is the type-specific configuration resolved from the template
// definition and snapshotted into the step's input.
type StepConfig struct {
	// Prompt variant for SYNTHESIS / GENERATION steps, e.g. "risk_matrix",
	// "due_diligence_report".
	Variant string `json:"variant,omitempty"`
	// ActionType selects the ACTION branch: "notify_team", "approval",
	// "document_collection", "export".
	ActionType string `json:"action_type,omitempty"`
	// IntegrationType selects the INTEGRATION branch: "draft" or "research".
	IntegrationType string `json:"integration_type,omitempty"`
	// DISPLAY options.
	IncludeActionItems bool `json:"include_action_items,omitempty"`
	IncludeTimeline    bool `json:"include_timeline,omitempty"`
}

// StepInput is the immutable per-step snapshot written at start().
type StepInput struct {
	DocumentIDs []uuid.UUID `json:"document_ids"`
	Config      StepConfig  `json:"config"`
}

func decodeUUIDList(raw datatypes.JSON) []uuid.UUID {
	var ids []uuid.UUID
	if len(raw) == 0 {
		return ids
	}
	_ = json.Unmarshal(raw, &ids)
	return ids
}
