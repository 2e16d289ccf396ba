package dto

import (
	"encoding/json"
	"time"

	"caseflow/internal/domain"

	"github.com/google/uuid"
)

type StartWorkflowRequest struct {
	TemplateID   uuid.UUID   `json:"template_id" binding:"required"`
	CollectionID *uuid.UUID  `json:"collection_id"`
	CaseID       *uuid.UUID  `json:"case_id"`
	DocumentIDs  []uuid.UUID `json:"document_ids"`
	Name         string      `json:"name"`
}

type ResumeWorkflowRequest struct {
	UserInput map[string]any `json:"user_input"`
}

type StepResponse struct {
	ID           uuid.UUID         `json:"id"`
	StepNumber   int               `json:"step_number"`
	StepName     string            `json:"step_name"`
	StepType     domain.StepType   `json:"step_type"`
	Status       domain.StepStatus `json:"status"`
	OutputData   any               `json:"output_data,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	StartedAt    *time.Time        `json:"started_at,omitempty"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

type ExecutionResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Name               string                 `json:"name"`
	Status             domain.ExecutionStatus `json:"status"`
	CurrentStep        int                    `json:"current_step"`
	TotalSteps         int                    `json:"total_steps"`
	ProgressPercentage int                    `json:"progress_percentage"`
	CaseID             *uuid.UUID             `json:"case_id,omitempty"`
	CollectionID       *uuid.UUID             `json:"collection_id,omitempty"`
	CreatedBy          uuid.UUID              `json:"created_by"`
	CreatedAt          time.Time              `json:"created_at"`
	StartedAt          *time.Time             `json:"started_at,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	Steps              []StepResponse         `json:"steps,omitempty"`
}

func NewExecutionResponse(execution *domain.WorkflowExecution, steps []domain.StepExecution) ExecutionResponse {
	resp := ExecutionResponse{
		ID:                 execution.ID,
		Name:               execution.Name,
		Status:             execution.Status,
		CurrentStep:        execution.CurrentStep,
		TotalSteps:         execution.TotalSteps,
		ProgressPercentage: execution.ProgressPercentage,
		CaseID:             execution.CaseID,
		CollectionID:       execution.CollectionID,
		CreatedBy:          execution.CreatedBy,
		CreatedAt:          execution.CreatedAt,
		StartedAt:          execution.StartedAt,
		CompletedAt:        execution.CompletedAt,
	}
	for _, s := range steps {
		step := StepResponse{
			ID:           s.ID,
			StepNumber:   s.StepNumber,
			StepName:     s.StepName,
			StepType:     s.StepType,
			Status:       s.Status,
			ErrorMessage: s.ErrorMessage,
			StartedAt:    s.StartedAt,
			CompletedAt:  s.CompletedAt,
		}
		if len(s.OutputData) > 0 {
			step.OutputData = json.RawMessage(s.OutputData)
		}
		resp.Steps = append(resp.Steps, step)
	}
	return resp
}
