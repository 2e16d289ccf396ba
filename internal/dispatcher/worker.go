package dispatcher

import (
	"context"
	"errors"
	"time"

	"caseflow/internal/core/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner drives one execution under an explicit tenant identity.
type Runner interface {
	Run(ctx context.Context, executionID, orgID uuid.UUID) error
}

// Worker pops RunRequests and hands them to the orchestrator. The tenant id
// travels inside the request payload; nothing is read from ambient state on
// this side of the async boundary.
type Worker struct {
	queue  ports.RunQueue
	runner Runner
	delay  time.Duration
	logger *zap.Logger
}

func NewWorker(queue ports.RunQueue, runner Runner, delay time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		queue:  queue,
		runner: runner,
		delay:  delay,
		logger: logger,
	}
}

// StartPool launches concurrency goroutines, each processing one run at a
// time until ctx is cancelled.
func (w *Worker) StartPool(ctx context.Context, concurrency int) {
	w.logger.Info("starting run worker pool", zap.Int("concurrency", concurrency))
	for i := 0; i < concurrency; i++ {
		go func(threadID int) {
			for {
				select {
				case <-ctx.Done():
					w.logger.Info("worker shutting down", zap.Int("thread", threadID))
					return
				default:
					w.ProcessNext(ctx)
				}
			}
		}(i)
	}
}

// ProcessNext handles exactly one run request.
func (w *Worker) ProcessNext(ctx context.Context) {
	req, err := w.queue.Pop(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("pop run request", zap.Error(err))
		}
		return
	}

	// Let the scheduling transaction commit before re-reading the rows it
	// created. If we are shut down mid-delay the request goes back on the
	// queue rather than stranding the execution in RUNNING.
	if w.delay > 0 {
		select {
		case <-ctx.Done():
			w.requeue(req)
			return
		case <-time.After(w.delay):
		}
	}

	if err := w.runner.Run(ctx, req.ExecutionID, req.OrgID); err != nil {
		w.logger.Error("run failed",
			zap.String("execution_id", req.ExecutionID.String()),
			zap.String("org_id", req.OrgID.String()),
			zap.Error(err))
	}
}

func (w *Worker) requeue(req ports.RunRequest) {
	// Fresh context: the worker's own context is already done.
	pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.queue.Push(pushCtx, req); err != nil {
		w.logger.Error("requeue interrupted run request",
			zap.String("execution_id", req.ExecutionID.String()),
			zap.Error(err))
	}
}
