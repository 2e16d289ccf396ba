package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caseflow/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const runQueueKey = "caseflow:queue:runs"

// RunQueue carries RunRequests between the API goroutines and the worker
// pool through a Redis list. Requests survive a process restart, so an
// execution scheduled just before a crash is picked up by the next worker.
type RunQueue struct {
	client *redis.Client
}

func NewRunQueue(client *redis.Client) *RunQueue {
	return &RunQueue{client: client}
}

var _ ports.RunQueue = (*RunQueue)(nil)

func (q *RunQueue) Push(ctx context.Context, req ports.RunRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, runQueueKey, payload).Err()
}

// Pop blocks until a request is available or ctx is done.
func (q *RunQueue) Pop(ctx context.Context) (ports.RunRequest, error) {
	result, err := q.client.BLPop(ctx, 0*time.Second, runQueueKey).Result()
	if err != nil {
		return ports.RunRequest{}, err
	}
	// BLPop returns [key, element]
	var req ports.RunRequest
	if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
		return ports.RunRequest{}, fmt.Errorf("decode run request: %w", err)
	}
	return req, nil
}
