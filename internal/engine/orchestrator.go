package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"
	"caseflow/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExecContext is the execution-scoped identity handed to every step handler.
// It is captured from the persisted execution row, never from ambient state,
// because the worker goroutine does not inherit the API caller's identity.
type ExecContext struct {
	ExecutionID  uuid.UUID
	OrgID        uuid.UUID
	CreatedBy    uuid.UUID
	CaseID       *uuid.UUID
	CollectionID *uuid.UUID
	Name         string
}

type stepOutcome struct {
	result  domain.StepResult
	waiting bool
}

// Orchestrator walks an execution's steps in order and persists every
// transition as it happens, so observers can poll live progress. It is only
// ever invoked from the dispatcher's worker pool; there is no inline path.
type Orchestrator struct {
	executions ports.ExecutionRepository
	steps      ports.StepRepository
	analyses   ports.AnalysisStore
	caseboard  ports.CaseboardStore
	generator  ports.Generator
	artifacts  ports.ArtifactSink
	directory  ports.CaseDirectory
	notifier   ports.Notifier
	progress   ports.ProgressPublisher
	logger     *zap.Logger
}

func NewOrchestrator(
	executions ports.ExecutionRepository,
	steps ports.StepRepository,
	analyses ports.AnalysisStore,
	caseboard ports.CaseboardStore,
	generator ports.Generator,
	artifacts ports.ArtifactSink,
	directory ports.CaseDirectory,
	notifier ports.Notifier,
	progress ports.ProgressPublisher,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		executions: executions,
		steps:      steps,
		analyses:   analyses,
		caseboard:  caseboard,
		generator:  generator,
		artifacts:  artifacts,
		directory:  directory,
		notifier:   notifier,
		progress:   progress,
		logger:     logger,
	}
}

// Run drives the execution forward until it completes, fails, or parks in
// WAITING_USER. Step-level failures are recorded as data, never returned;
// the error return is reserved for infrastructure faults.
func (o *Orchestrator) Run(ctx context.Context, executionID, orgID uuid.UUID) error {
	execution, steps, err := o.executions.GetWithSteps(ctx, orgID, executionID)
	if err != nil {
		return fmt.Errorf("load execution %s: %w", executionID, err)
	}
	if execution.IsFinished() {
		o.logger.Info("execution already finished, nothing to do",
			zap.String("execution_id", executionID.String()),
			zap.String("status", string(execution.Status)))
		return nil
	}

	if err := o.executions.MarkRunning(ctx, orgID, executionID); err != nil {
		return fmt.Errorf("mark execution running: %w", err)
	}

	ec := ExecContext{
		ExecutionID:  execution.ID,
		OrgID:        execution.OrgID,
		CreatedBy:    execution.CreatedBy,
		CaseID:       execution.CaseID,
		CollectionID: execution.CollectionID,
		Name:         execution.Name,
	}

	for i := range steps {
		step := &steps[i]
		if step.Status == domain.StepCompleted {
			continue
		}

		claimed, err := o.steps.Claim(ctx, orgID, step.ID, step.Version)
		if err != nil {
			return fmt.Errorf("claim step %d: %w", step.StepNumber, err)
		}
		if !claimed {
			// Another task is already advancing this execution; back off.
			o.logger.Warn("step claim lost, abandoning run",
				zap.String("execution_id", executionID.String()),
				zap.Int("step_number", step.StepNumber))
			return nil
		}
		o.publish(ctx, execution, step, domain.StepRunning, domain.ExecutionRunning)

		outcome, handlerErr := o.runStep(ctx, ec, step)
		if handlerErr != nil {
			return o.failStep(ctx, execution, step, handlerErr)
		}

		output, err := json.Marshal(outcome.result)
		if err != nil {
			return o.failStep(ctx, execution, step, fmt.Errorf("encode step output: %w", err))
		}

		if outcome.waiting {
			if err := o.steps.Wait(ctx, orgID, step.ID, output); err != nil {
				return fmt.Errorf("persist waiting step: %w", err)
			}
			if err := o.executions.SetWaiting(ctx, orgID, executionID); err != nil {
				return fmt.Errorf("persist waiting execution: %w", err)
			}
			metrics.StepsExecuted.WithLabelValues(string(step.StepType), "waiting_user").Inc()
			metrics.ExecutionsFinished.WithLabelValues("waiting_user").Inc()
			o.publish(ctx, execution, step, domain.StepWaitingUser, domain.ExecutionWaitingUser)
			o.logger.Info("execution paused for user input",
				zap.String("execution_id", executionID.String()),
				zap.Int("step_number", step.StepNumber))
			return nil
		}

		if err := o.steps.Complete(ctx, orgID, step.ID, output); err != nil {
			return fmt.Errorf("persist completed step: %w", err)
		}
		progress := domain.ProgressPercent(step.StepNumber, execution.TotalSteps)
		if err := o.executions.UpdateProgress(ctx, orgID, executionID, step.StepNumber, progress); err != nil {
			return fmt.Errorf("persist progress: %w", err)
		}
		execution.CurrentStep = step.StepNumber
		execution.ProgressPercentage = progress
		metrics.StepsExecuted.WithLabelValues(string(step.StepType), "completed").Inc()
		o.publishProgress(ctx, execution, step, domain.StepCompleted, domain.ExecutionRunning, progress)
	}

	if err := o.executions.MarkCompleted(ctx, orgID, executionID); err != nil {
		return fmt.Errorf("mark execution completed: %w", err)
	}
	metrics.ExecutionsFinished.WithLabelValues("completed").Inc()
	o.logger.Info("execution completed",
		zap.String("execution_id", executionID.String()),
		zap.Int("total_steps", execution.TotalSteps))
	return nil
}

// runStep dispatches on the closed step-type set. Adding a sixth type means
// adding a case here; there is no string fallthrough.
func (o *Orchestrator) runStep(ctx context.Context, ec ExecContext, step *domain.StepExecution) (stepOutcome, error) {
	var input domain.StepInput
	if err := json.Unmarshal(step.InputData, &input); err != nil {
		return stepOutcome{}, fmt.Errorf("decode step input: %w", err)
	}

	switch step.StepType {
	case domain.StepDisplay:
		result, err := o.runDisplay(ctx, ec, input)
		return stepOutcome{result: result}, err
	case domain.StepSynthesis:
		result, err := o.runSynthesis(ctx, ec, step, input)
		return stepOutcome{result: result}, err
	case domain.StepGeneration:
		result, err := o.runGeneration(ctx, ec, input)
		return stepOutcome{result: result}, err
	case domain.StepIntegration:
		result, err := o.runIntegration(ctx, ec, step, input)
		return stepOutcome{result: result}, err
	case domain.StepAction:
		result, err := o.runAction(ctx, ec, step, input)
		return stepOutcome{result: result, waiting: true}, err
	default:
		return stepOutcome{}, fmt.Errorf("unknown step type %q", step.StepType)
	}
}

// failStep records the failure on the step and the execution. Earlier steps
// and the artifacts they created stay as they are; they are independently
// useful even when a later step fails.
func (o *Orchestrator) failStep(ctx context.Context, execution *domain.WorkflowExecution, step *domain.StepExecution, cause error) error {
	o.logger.Error("step failed",
		zap.String("execution_id", execution.ID.String()),
		zap.Int("step_number", step.StepNumber),
		zap.String("step_type", string(step.StepType)),
		zap.Error(cause))

	if err := o.steps.Fail(ctx, execution.OrgID, step.ID, cause.Error()); err != nil {
		return fmt.Errorf("persist failed step: %w", err)
	}
	if err := o.executions.MarkFailed(ctx, execution.OrgID, execution.ID); err != nil {
		return fmt.Errorf("persist failed execution: %w", err)
	}
	metrics.StepsExecuted.WithLabelValues(string(step.StepType), "failed").Inc()
	metrics.ExecutionsFinished.WithLabelValues("failed").Inc()
	o.publish(ctx, execution, step, domain.StepFailed, domain.ExecutionFailed)
	return nil
}

func (o *Orchestrator) publish(ctx context.Context, execution *domain.WorkflowExecution, step *domain.StepExecution, stepStatus domain.StepStatus, execStatus domain.ExecutionStatus) {
	o.publishProgress(ctx, execution, step, stepStatus, execStatus, execution.ProgressPercentage)
}

func (o *Orchestrator) publishProgress(ctx context.Context, execution *domain.WorkflowExecution, step *domain.StepExecution, stepStatus domain.StepStatus, execStatus domain.ExecutionStatus, progress int) {
	ev := domain.ProgressEvent{
		ExecutionID:     execution.ID,
		OrgID:           execution.OrgID,
		StepID:          step.ID,
		StepNumber:      step.StepNumber,
		StepStatus:      stepStatus,
		ExecutionStatus: execStatus,
		Progress:        progress,
	}
	if err := o.progress.PublishProgress(ctx, ev); err != nil {
		o.logger.Warn("progress publish failed", zap.Error(err))
	}
}
