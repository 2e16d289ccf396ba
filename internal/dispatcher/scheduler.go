package dispatcher

import (
	"context"

	"caseflow/internal/core/ports"

	"github.com/google/uuid"
)

// QueueScheduler is the only implementation of ports.Scheduler: scheduling a
// run means enqueueing a RunRequest, full stop. The orchestrator is never
// called inline from a request goroutine, so the pause/resume contract
// cannot be bypassed by accident.
type QueueScheduler struct {
	queue ports.RunQueue
}

func NewQueueScheduler(queue ports.RunQueue) *QueueScheduler {
	return &QueueScheduler{queue: queue}
}

var _ ports.Scheduler = (*QueueScheduler)(nil)

func (s *QueueScheduler) Schedule(ctx context.Context, executionID, orgID uuid.UUID) error {
	return s.queue.Push(ctx, ports.RunRequest{ExecutionID: executionID, OrgID: orgID})
}
