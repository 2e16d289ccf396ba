package engine

import (
	"context"
	"testing"

	"caseflow/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionFixture(t *testing.T, actionType string, caseID *uuid.UUID) (*testEnv, ExecContext, *domain.StepExecution, domain.StepInput) {
	t.Helper()
	orgID, creator := uuid.New(), uuid.New()
	execution, steps := buildExecution(t, orgID, creator, caseID, nil, []stepSeed{
		{name: "Action", stepType: domain.StepAction, config: domain.StepConfig{ActionType: actionType}},
	})
	env := newTestEnv(newMemStore(execution, steps))
	ec := ExecContext{
		ExecutionID: execution.ID,
		OrgID:       orgID,
		CreatedBy:   creator,
		CaseID:      caseID,
		Name:        execution.Name,
	}
	return env, ec, &steps[0], domain.StepInput{Config: domain.StepConfig{ActionType: actionType}}
}

func TestNotifyTeamExcludesCreator(t *testing.T) {
	caseID := uuid.New()
	env, ec, step, input := actionFixture(t, "notify_team", &caseID)
	userX, userY := uuid.New(), uuid.New()
	env.directory.assignees = []uuid.UUID{ec.CreatedBy, userX, userY}

	result, err := env.orch.runAction(context.Background(), ec, step, input)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NotificationsSent)
	require.Len(t, env.notifier.sent, 2)
	recipients := []uuid.UUID{env.notifier.sent[0].UserID, env.notifier.sent[1].UserID}
	assert.ElementsMatch(t, []uuid.UUID{userX, userY}, recipients)
}

func TestNotifyTeamCreatorOnlyTeam(t *testing.T) {
	caseID := uuid.New()
	env, ec, step, input := actionFixture(t, "notify_team", &caseID)
	env.directory.assignees = []uuid.UUID{ec.CreatedBy}

	result, err := env.orch.runAction(context.Background(), ec, step, input)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NotificationsSent)
	assert.Empty(t, env.notifier.sent)
}

func TestNotifyTeamEmptyTeam(t *testing.T) {
	caseID := uuid.New()
	env, ec, step, input := actionFixture(t, "notify_team", &caseID)

	result, err := env.orch.runAction(context.Background(), ec, step, input)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NotificationsSent)
}

func TestNotifyTeamWithoutCase(t *testing.T) {
	env, ec, step, input := actionFixture(t, "notify_team", nil)
	env.directory.assignees = []uuid.UUID{uuid.New()}

	result, err := env.orch.runAction(context.Background(), ec, step, input)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NotificationsSent)
}

func TestNotifyTeamCountsOutFailedDeliveries(t *testing.T) {
	caseID := uuid.New()
	env, ec, step, input := actionFixture(t, "notify_team", &caseID)
	userX, userY := uuid.New(), uuid.New()
	env.directory.assignees = []uuid.UUID{userX, userY}
	env.notifier.failFor = map[uuid.UUID]bool{userX: true}

	result, err := env.orch.runAction(context.Background(), ec, step, input)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotificationsSent)
	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, userY, env.notifier.sent[0].UserID)
}

func TestActionSubTypesProduceWaitingMessages(t *testing.T) {
	for _, actionType := range []string{"approval", "document_collection", "export", "custom"} {
		env, ec, step, input := actionFixture(t, actionType, nil)
		result, err := env.orch.runAction(context.Background(), ec, step, input)
		require.NoError(t, err, actionType)
		assert.NotEmpty(t, result.Message, actionType)
		assert.Zero(t, result.NotificationsSent, actionType)
		assert.Empty(t, env.notifier.sent, actionType)
	}
}
