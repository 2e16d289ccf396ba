package ports

import (
	"context"

	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Every repository call takes the tenant's org id explicitly. The background
// task that drives a run does not inherit the caller's identity, so nothing
// here may read it from ambient state.

type TemplateRepository interface {
	// GetByID loads a template with its step definitions in position order.
	GetByID(ctx context.Context, orgID, templateID uuid.UUID) (*domain.WorkflowTemplate, error)
}

type ExecutionRepository interface {
	// CreateWithSteps saves the execution and all its step rows in one
	// transaction.
	CreateWithSteps(ctx context.Context, execution *domain.WorkflowExecution, steps []domain.StepExecution) error

	GetByID(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, error)

	// GetWithSteps returns the execution and its steps ordered by step_number.
	GetWithSteps(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, []domain.StepExecution, error)

	// MarkRunning sets RUNNING and records started_at only if it is still
	// unset, so re-entering run() on a resumed execution keeps the original
	// start time. Terminal executions are left untouched.
	MarkRunning(ctx context.Context, orgID, executionID uuid.UUID) error

	// UpdateProgress advances current_step / progress_percentage after a step
	// completes.
	UpdateProgress(ctx context.Context, orgID, executionID uuid.UUID, currentStep, progress int) error

	SetWaiting(ctx context.Context, orgID, executionID uuid.UUID) error
	MarkCompleted(ctx context.Context, orgID, executionID uuid.UUID) error
	MarkFailed(ctx context.Context, orgID, executionID uuid.UUID) error
}

type StepRepository interface {
	GetByID(ctx context.Context, orgID, stepID uuid.UUID) (*domain.StepExecution, error)

	// Claim moves PENDING -> RUNNING with optimistic locking
	// (WHERE version = ?). A false return means another task got there first.
	Claim(ctx context.Context, orgID, stepID uuid.UUID, version int) (bool, error)

	Complete(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error
	Wait(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error
	Fail(ctx context.Context, orgID, stepID uuid.UUID, message string) error

	// CompleteWaiting moves WAITING_USER -> COMPLETED (resume path). The
	// status guard makes a second resume of the same step a 0-row no-op;
	// false means the step was not waiting.
	CompleteWaiting(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) (bool, error)
}

// AnalysisStore exposes previously computed per-document analysis.
// A missing analysis is domain.ErrNotFound; handlers skip that document
// rather than failing the step.
type AnalysisStore interface {
	GetDocumentAnalysis(ctx context.Context, orgID, documentID uuid.UUID) (*domain.DocumentAnalysis, error)
}

// CaseboardStore exposes the action items and timeline events keyed by
// analysis ids, consumed by DISPLAY steps.
type CaseboardStore interface {
	GetActionItems(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.ActionItem, error)
	GetTimelineEvents(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.TimelineEvent, error)
}

// Generator is the text-generation backend. The engine blocks on it from the
// background task that owns the run, never from a request goroutine.
type Generator interface {
	Generate(ctx context.Context, prompt string, deepThinking bool) (string, error)
}

// ArtifactSink persists the durable artifacts SYNTHESIS / INTEGRATION steps
// leave behind.
type ArtifactSink interface {
	CreateDraftArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string) (uuid.UUID, error)
	CreateResearchArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string, documentCount int) (uuid.UUID, error)
}

type CaseDirectory interface {
	GetCaseAssignees(ctx context.Context, orgID, caseID uuid.UUID) ([]uuid.UUID, error)
}

// Notifier delivers one notification. A failed delivery is logged by the
// caller and never aborts the step.
type Notifier interface {
	Notify(ctx context.Context, orgID uuid.UUID, n domain.Notification) error
}

// ProgressPublisher broadcasts step transitions; best effort.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, ev domain.ProgressEvent) error
}

// RunRequest is the unit carried by the run queue: which execution to drive
// and under whose tenant identity.
type RunRequest struct {
	ExecutionID uuid.UUID `json:"execution_id"`
	OrgID       uuid.UUID `json:"org_id"`
}

// RunQueue is the async boundary. Push returns to the caller immediately;
// Pop blocks until a request is available.
type RunQueue interface {
	Push(ctx context.Context, req RunRequest) error
	Pop(ctx context.Context) (RunRequest, error)
}

// Scheduler is the only way the orchestrator's run loop ever gets invoked.
// There is deliberately no same-goroutine path: calling run inline would
// defeat the pause/resume contract.
type Scheduler interface {
	Schedule(ctx context.Context, executionID, orgID uuid.UUID) error
}
