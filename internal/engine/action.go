package engine

import (
	"context"
	"fmt"

	"caseflow/internal/domain"
	"caseflow/internal/metrics"

	"go.uber.org/zap"
)

const (
	actionNotifyTeam         = "notify_team"
	actionApproval           = "approval"
	actionDocumentCollection = "document_collection"
	actionExport             = "export"
)

// runAction never completes a step on its own: whatever the sub-type does,
// the orchestrator parks the step in WAITING_USER afterwards. notify_team
// fans out to the case team first; the other sub-types only produce a
// descriptive waiting message.
func (o *Orchestrator) runAction(ctx context.Context, ec ExecContext, step *domain.StepExecution, input domain.StepInput) (domain.ActionResult, error) {
	actionType := input.Config.ActionType

	switch actionType {
	case actionNotifyTeam:
		sent := o.notifyTeam(ctx, ec, step)
		return domain.ActionResult{
			ActionType:        actionNotifyTeam,
			Message:           fmt.Sprintf("Notified %d team member(s). Waiting for user input to continue.", sent),
			NotificationsSent: sent,
		}, nil
	case actionApproval:
		return domain.ActionResult{
			ActionType: actionApproval,
			Message:    "Waiting for approval to continue the workflow.",
		}, nil
	case actionDocumentCollection:
		return domain.ActionResult{
			ActionType: actionDocumentCollection,
			Message:    "Waiting for additional documents to be collected.",
		}, nil
	case actionExport:
		return domain.ActionResult{
			ActionType: actionExport,
			Message:    "Waiting for export confirmation.",
		}, nil
	default:
		return domain.ActionResult{
			ActionType: actionType,
			Message:    "Waiting for user input to continue.",
		}, nil
	}
}

// notifyTeam sends one notification per case assignee, excluding the run's
// creator. Per-recipient failures are logged and counted out, never raised;
// zero assignees (or creator-only) is a valid zero-sent outcome.
func (o *Orchestrator) notifyTeam(ctx context.Context, ec ExecContext, step *domain.StepExecution) int {
	if ec.CaseID == nil {
		o.logger.Info("notify_team without a case binding, nothing to send",
			zap.String("execution_id", ec.ExecutionID.String()))
		return 0
	}

	assignees, err := o.directory.GetCaseAssignees(ctx, ec.OrgID, *ec.CaseID)
	if err != nil {
		o.logger.Warn("case assignee lookup failed, sending no notifications",
			zap.String("case_id", ec.CaseID.String()),
			zap.Error(err))
		return 0
	}

	sent := 0
	for _, userID := range assignees {
		if userID == ec.CreatedBy {
			continue
		}
		n := domain.Notification{
			UserID: userID,
			Title:  "Workflow needs attention",
			Body:   fmt.Sprintf("Workflow %q is waiting at step %q.", ec.Name, step.StepName),
			Kind:   "workflow_action",
			Data: map[string]string{
				"execution_id": ec.ExecutionID.String(),
				"step_id":      step.ID.String(),
			},
		}
		if err := o.notifier.Notify(ctx, ec.OrgID, n); err != nil {
			o.logger.Warn("notification delivery failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		sent++
		metrics.NotificationsSent.Inc()
	}
	return sent
}
