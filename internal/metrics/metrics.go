package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExecutionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caseflow_executions_started_total",
		Help: "Workflow executions materialized and scheduled.",
	})

	ExecutionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseflow_executions_finished_total",
		Help: "Workflow executions reaching a terminal or paused state.",
	}, []string{"status"})

	StepsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseflow_steps_executed_total",
		Help: "Step handler invocations by type and resulting status.",
	}, []string{"type", "status"})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caseflow_notifications_sent_total",
		Help: "Notifications successfully handed to the notification sink.",
	})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caseflow_generation_duration_seconds",
		Help:    "Wall time of generation backend calls.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"deep_thinking"})
)
