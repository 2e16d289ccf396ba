package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"caseflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanQueue struct {
	ch chan ports.RunRequest
}

func newChanQueue() *chanQueue {
	return &chanQueue{ch: make(chan ports.RunRequest, 16)}
}

func (q *chanQueue) Push(ctx context.Context, req ports.RunRequest) error {
	q.ch <- req
	return nil
}

func (q *chanQueue) Pop(ctx context.Context) (ports.RunRequest, error) {
	select {
	case <-ctx.Done():
		return ports.RunRequest{}, ctx.Err()
	case req := <-q.ch:
		return req, nil
	}
}

type recordingRunner struct {
	mu   sync.Mutex
	runs []ports.RunRequest
}

func (r *recordingRunner) Run(ctx context.Context, executionID, orgID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, ports.RunRequest{ExecutionID: executionID, OrgID: orgID})
	return nil
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func TestWorkerCarriesTenantIdentity(t *testing.T) {
	queue := newChanQueue()
	runner := &recordingRunner{}
	worker := NewWorker(queue, runner, 0, zap.NewNop())

	executionID, orgID := uuid.New(), uuid.New()
	require.NoError(t, queue.Push(context.Background(), ports.RunRequest{ExecutionID: executionID, OrgID: orgID}))

	worker.ProcessNext(context.Background())

	require.Equal(t, 1, runner.count())
	assert.Equal(t, executionID, runner.runs[0].ExecutionID)
	assert.Equal(t, orgID, runner.runs[0].OrgID)
}

func TestWorkerRequeuesWhenCancelledDuringDelay(t *testing.T) {
	queue := newChanQueue()
	runner := &recordingRunner{}
	worker := NewWorker(queue, runner, time.Minute, zap.NewNop())

	req := ports.RunRequest{ExecutionID: uuid.New(), OrgID: uuid.New()}
	require.NoError(t, queue.Push(context.Background(), req))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.ProcessNext(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	// The run never happened but the request is back on the queue.
	assert.Zero(t, runner.count())
	got, err := queue.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestSchedulerEnqueuesRunRequest(t *testing.T) {
	queue := newChanQueue()
	scheduler := NewQueueScheduler(queue)

	executionID, orgID := uuid.New(), uuid.New()
	require.NoError(t, scheduler.Schedule(context.Background(), executionID, orgID))

	got, err := queue.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, executionID, got.ExecutionID)
	assert.Equal(t, orgID, got.OrgID)
}
