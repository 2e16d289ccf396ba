package domain

import (
	"github.com/google/uuid"
)

// ProgressEvent is published to Redis Pub/Sub after every persisted step
// transition so external observers can follow a run without polling.
type ProgressEvent struct {
	ExecutionID     uuid.UUID       `json:"execution_id"`
	OrgID           uuid.UUID       `json:"org_id"`
	StepID          uuid.UUID       `json:"step_id"`
	StepNumber      int             `json:"step_number"`
	StepStatus      StepStatus      `json:"step_status"`
	ExecutionStatus ExecutionStatus `json:"execution_status"`
	Progress        int             `json:"progress"`
}

// Notification is one message for one recipient. Delivery failures are the
// sender's problem to log, never the caller's to propagate.
type Notification struct {
	UserID uuid.UUID         `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Kind   string            `json:"kind"`
	Data   map[string]string `json:"data,omitempty"`
}
