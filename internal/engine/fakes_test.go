package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caseflow/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// memStore backs both repositories with in-memory rows, mimicking the
// org-scoped guarded updates of the postgres implementations.
type memStore struct {
	mu        sync.Mutex
	execution *domain.WorkflowExecution
	steps     []domain.StepExecution
}

func newMemStore(execution *domain.WorkflowExecution, steps []domain.StepExecution) *memStore {
	return &memStore{execution: execution, steps: steps}
}

func (m *memStore) scoped(orgID, executionID uuid.UUID) bool {
	return m.execution != nil && m.execution.ID == executionID && m.execution.OrgID == orgID
}

func (m *memStore) CreateWithSteps(ctx context.Context, execution *domain.WorkflowExecution, steps []domain.StepExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execution = execution
	m.steps = steps
	return nil
}

func (m *memStore) GetByID(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scoped(orgID, executionID) {
		return nil, domain.ErrNotFound
	}
	cp := *m.execution
	return &cp, nil
}

func (m *memStore) GetWithSteps(ctx context.Context, orgID, executionID uuid.UUID) (*domain.WorkflowExecution, []domain.StepExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scoped(orgID, executionID) {
		return nil, nil, domain.ErrNotFound
	}
	cp := *m.execution
	steps := make([]domain.StepExecution, len(m.steps))
	copy(steps, m.steps)
	return &cp, steps, nil
}

func (m *memStore) MarkRunning(ctx context.Context, orgID, executionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scoped(orgID, executionID) || m.execution.IsFinished() {
		return nil
	}
	m.execution.Status = domain.ExecutionRunning
	if m.execution.StartedAt == nil {
		now := time.Now()
		m.execution.StartedAt = &now
	}
	return nil
}

func (m *memStore) UpdateProgress(ctx context.Context, orgID, executionID uuid.UUID, currentStep, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scoped(orgID, executionID) {
		return nil
	}
	m.execution.CurrentStep = currentStep
	m.execution.ProgressPercentage = progress
	return nil
}

func (m *memStore) SetWaiting(ctx context.Context, orgID, executionID uuid.UUID) error {
	return m.setStatus(orgID, executionID, domain.ExecutionWaitingUser, false)
}

func (m *memStore) MarkCompleted(ctx context.Context, orgID, executionID uuid.UUID) error {
	return m.setStatus(orgID, executionID, domain.ExecutionCompleted, true)
}

func (m *memStore) MarkFailed(ctx context.Context, orgID, executionID uuid.UUID) error {
	return m.setStatus(orgID, executionID, domain.ExecutionFailed, false)
}

func (m *memStore) setStatus(orgID, executionID uuid.UUID, status domain.ExecutionStatus, complete bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.scoped(orgID, executionID) || m.execution.IsFinished() {
		return nil
	}
	m.execution.Status = status
	if complete {
		m.execution.ProgressPercentage = 100
	}
	if status == domain.ExecutionCompleted || status == domain.ExecutionFailed {
		now := time.Now()
		m.execution.CompletedAt = &now
	}
	return nil
}

func (m *memStore) stepIndex(orgID, stepID uuid.UUID) int {
	for i := range m.steps {
		if m.steps[i].ID == stepID && m.steps[i].OrgID == orgID {
			return i
		}
	}
	return -1
}

func (m *memStore) GetByIDStep(ctx context.Context, orgID, stepID uuid.UUID) (*domain.StepExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	cp := m.steps[i]
	return &cp, nil
}

func (m *memStore) Claim(ctx context.Context, orgID, stepID uuid.UUID, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 || m.steps[i].Version != version {
		return false, nil
	}
	now := time.Now()
	m.steps[i].Status = domain.StepRunning
	m.steps[i].StartedAt = &now
	m.steps[i].Version = version + 1
	return true, nil
}

func (m *memStore) Complete(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 {
		return domain.ErrNotFound
	}
	now := time.Now()
	m.steps[i].Status = domain.StepCompleted
	m.steps[i].OutputData = output
	m.steps[i].CompletedAt = &now
	return nil
}

func (m *memStore) Wait(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.steps[i].Status = domain.StepWaitingUser
	m.steps[i].OutputData = output
	return nil
}

func (m *memStore) Fail(ctx context.Context, orgID, stepID uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 {
		return domain.ErrNotFound
	}
	now := time.Now()
	m.steps[i].Status = domain.StepFailed
	m.steps[i].ErrorMessage = message
	m.steps[i].CompletedAt = &now
	return nil
}

func (m *memStore) CompleteWaiting(ctx context.Context, orgID, stepID uuid.UUID, output datatypes.JSON) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.stepIndex(orgID, stepID)
	if i < 0 || m.steps[i].Status != domain.StepWaitingUser {
		return false, nil
	}
	now := time.Now()
	m.steps[i].Status = domain.StepCompleted
	m.steps[i].OutputData = output
	m.steps[i].CompletedAt = &now
	m.steps[i].Version++
	return true, nil
}

// stepRepoView adapts memStore to ports.StepRepository (GetByID name clash
// with the execution side).
type stepRepoView struct{ *memStore }

func (v stepRepoView) GetByID(ctx context.Context, orgID, stepID uuid.UUID) (*domain.StepExecution, error) {
	return v.memStore.GetByIDStep(ctx, orgID, stepID)
}

type fakeAnalysisStore struct {
	byDocument map[uuid.UUID]domain.DocumentAnalysis
}

func (f *fakeAnalysisStore) GetDocumentAnalysis(ctx context.Context, orgID, documentID uuid.UUID) (*domain.DocumentAnalysis, error) {
	a, ok := f.byDocument[documentID]
	if !ok || a.OrgID != orgID {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

type fakeCaseboard struct {
	items  []domain.ActionItem
	events []domain.TimelineEvent
}

func (f *fakeCaseboard) GetActionItems(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.ActionItem, error) {
	return f.items, nil
}

func (f *fakeCaseboard) GetTimelineEvents(ctx context.Context, orgID uuid.UUID, analysisIDs []uuid.UUID) ([]domain.TimelineEvent, error) {
	return f.events, nil
}

type genCall struct {
	prompt string
	deep   bool
}

type fakeGenerator struct {
	mu         sync.Mutex
	calls      []genCall
	failOnCall int // 1-based call number that errors; 0 = never
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, deepThinking bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, genCall{prompt: prompt, deep: deepThinking})
	if f.failOnCall > 0 && len(f.calls) == f.failOnCall {
		return "", fmt.Errorf("model overloaded")
	}
	return fmt.Sprintf("generated text %d", len(f.calls)), nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type artifactRecord struct {
	id      uuid.UUID
	name    string
	content string
	docs    int
}

type fakeArtifacts struct {
	mu       sync.Mutex
	drafts   []artifactRecord
	research []artifactRecord
}

func (f *fakeArtifacts) CreateDraftArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := artifactRecord{id: uuid.New(), name: name, content: content}
	f.drafts = append(f.drafts, rec)
	return rec.id, nil
}

func (f *fakeArtifacts) CreateResearchArtifact(ctx context.Context, orgID, ownerID uuid.UUID, name string, caseID *uuid.UUID, executionID uuid.UUID, content string, documentCount int) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := artifactRecord{id: uuid.New(), name: name, content: content, docs: documentCount}
	f.research = append(f.research, rec)
	return rec.id, nil
}

type fakeDirectory struct {
	assignees []uuid.UUID
	err       error
}

func (f *fakeDirectory) GetCaseAssignees(ctx context.Context, orgID, caseID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignees, f.err
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []domain.Notification
	failFor map[uuid.UUID]bool
}

func (f *fakeNotifier) Notify(ctx context.Context, orgID uuid.UUID, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[n.UserID] {
		return fmt.Errorf("push gateway unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeProgress struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

func (f *fakeProgress) PublishProgress(ctx context.Context, ev domain.ProgressEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}
