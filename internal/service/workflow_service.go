package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"
	"caseflow/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartRequest carries everything needed to materialize a run. The caller's
// org id is passed alongside, not embedded, so handlers cannot forget to
// scope it.
type StartRequest struct {
	TemplateID   uuid.UUID
	CollectionID *uuid.UUID
	CaseID       *uuid.UUID
	DocumentIDs  []uuid.UUID
	CreatedBy    uuid.UUID
	Name         string
}

type WorkflowService interface {
	// StartWorkflow materializes the execution and its step rows, schedules
	// the first run, and returns immediately; the caller observes progress
	// by polling GetExecutionWithSteps.
	StartWorkflow(ctx context.Context, orgID uuid.UUID, req StartRequest) (*domain.WorkflowExecution, error)

	// ResumeWorkflow finalizes a WAITING_USER step with the user's input and
	// re-schedules the run. It performs no other execution-level change; the
	// run loop moves the execution out of WAITING_USER itself.
	ResumeWorkflow(ctx context.Context, orgID, executionID, stepID uuid.UUID, userInput map[string]any) error

	GetExecutionWithSteps(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, []domain.StepExecution, error)
}

type workflowService struct {
	templates  ports.TemplateRepository
	executions ports.ExecutionRepository
	steps      ports.StepRepository
	scheduler  ports.Scheduler
	logger     *zap.Logger
}

func NewWorkflowService(
	templates ports.TemplateRepository,
	executions ports.ExecutionRepository,
	steps ports.StepRepository,
	scheduler ports.Scheduler,
	logger *zap.Logger,
) WorkflowService {
	return &workflowService{
		templates:  templates,
		executions: executions,
		steps:      steps,
		scheduler:  scheduler,
		logger:     logger,
	}
}

func (s *workflowService) StartWorkflow(ctx context.Context, orgID uuid.UUID, req StartRequest) (*domain.WorkflowExecution, error) {
	template, err := s.templates.GetByID(ctx, orgID, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if len(template.Steps) == 0 {
		return nil, fmt.Errorf("template %s has no steps", template.ID)
	}

	name := req.Name
	if name == "" {
		name = template.Name
	}

	execution := domain.NewExecution(orgID, template.ID, req.CreatedBy, name, len(template.Steps))
	execution.CaseID = req.CaseID
	execution.CollectionID = req.CollectionID
	if docIDs, err := json.Marshal(req.DocumentIDs); err == nil {
		execution.DocumentIDs = docIDs
	}

	// Snapshot the template into step rows now; the template's live step
	// list is never consulted again for this run.
	steps := make([]domain.StepExecution, 0, len(template.Steps))
	for i, def := range template.Steps {
		if _, err := domain.ParseStepType(string(def.StepType)); err != nil {
			return nil, fmt.Errorf("template %s step %d: %w", template.ID, i+1, err)
		}
		var cfg domain.StepConfig
		if len(def.Config) > 0 {
			if err := json.Unmarshal(def.Config, &cfg); err != nil {
				return nil, fmt.Errorf("template %s step %d config: %w", template.ID, i+1, err)
			}
		}
		step, err := domain.NewStepExecution(execution, i+1, def, domain.StepInput{
			DocumentIDs: req.DocumentIDs,
			Config:      cfg,
		})
		if err != nil {
			return nil, err
		}
		steps = append(steps, *step)
	}

	if err := s.executions.CreateWithSteps(ctx, execution, steps); err != nil {
		return nil, fmt.Errorf("persist execution: %w", err)
	}
	metrics.ExecutionsStarted.Inc()

	if err := s.scheduler.Schedule(ctx, execution.ID, orgID); err != nil {
		return nil, fmt.Errorf("schedule run: %w", err)
	}

	s.logger.Info("workflow started",
		zap.String("execution_id", execution.ID.String()),
		zap.String("template_id", template.ID.String()),
		zap.Int("total_steps", execution.TotalSteps))
	return execution, nil
}

func (s *workflowService) ResumeWorkflow(ctx context.Context, orgID, executionID, stepID uuid.UUID, userInput map[string]any) error {
	if _, err := s.executions.GetByID(ctx, orgID, executionID); err != nil {
		return fmt.Errorf("load execution: %w", err)
	}

	step, err := s.steps.GetByID(ctx, orgID, stepID)
	if err != nil {
		return fmt.Errorf("load step: %w", err)
	}
	if step.ExecutionID != executionID {
		return domain.ErrStepMismatch
	}

	output, err := mergeUserInput(step.OutputData, userInput)
	if err != nil {
		return err
	}

	finalized, err := s.steps.CompleteWaiting(ctx, orgID, stepID, output)
	if err != nil {
		return fmt.Errorf("finalize step: %w", err)
	}
	if !finalized {
		// A concurrent or repeated resume already finalized the step; the
		// run loop skips completed steps, so re-scheduling is harmless.
		// Anything else means the step was never waiting.
		if step.Status != domain.StepWaitingUser && step.Status != domain.StepCompleted {
			return domain.ErrStepNotWaiting
		}
		s.logger.Info("step already finalized, re-scheduling only",
			zap.String("step_id", stepID.String()))
	}

	if err := s.scheduler.Schedule(ctx, executionID, orgID); err != nil {
		return fmt.Errorf("schedule run: %w", err)
	}
	return nil
}

func (s *workflowService) GetExecutionWithSteps(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, []domain.StepExecution, error) {
	execution, steps, err := s.executions.GetWithSteps(ctx, orgID, executionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load execution: %w", err)
	}
	return execution, steps, nil
}

// mergeUserInput records the resume payload inside the step's existing
// output instead of overwriting what the handler wrote when it paused.
func mergeUserInput(existing []byte, userInput map[string]any) ([]byte, error) {
	merged := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return nil, fmt.Errorf("decode step output: %w", err)
		}
	}
	if userInput == nil {
		userInput = map[string]any{}
	}
	merged["user_input"] = userInput
	return json.Marshal(merged)
}
