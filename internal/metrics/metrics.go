package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuizzesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nqesh_quizzes_started_total",
			Help: "Total number of quiz attempts started",
		},
		[]string{"category"},
	)

	QuizzesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nqesh_quizzes_completed_total",
			Help: "Total number of quiz attempts completed",
		},
		[]string{"category"},
	)

	Answers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nqesh_answers_total",
			Help: "Total number of recorded answers",
		},
		[]string{"outcome"}, // correct, incorrect, timeout
	)

	ResultSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nqesh_result_saves_total",
			Help: "Result persistence attempts by outcome",
		},
		[]string{"status"}, // saved, retried, failed, stashed, flushed
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nqesh_active_sessions",
			Help: "Quiz sessions currently held in memory",
		},
	)

	PendingResults = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nqesh_pending_results",
			Help: "Results waiting in the stash for a successful save",
		},
	)

	DashboardBuild = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nqesh_dashboard_build_seconds",
			Help:    "Time spent loading history and computing a dashboard",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// AnswerOutcome labels an answer for the Answers counter.
func AnswerOutcome(correct, timedOut bool) string {
	switch {
	case timedOut:
		return "timeout"
	case correct:
		return "correct"
	default:
		return "incorrect"
	}
}
