// Package metrics exposes Prometheus collectors for the intake and review
// workflow plus an optional HTTP listener serving them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "giftbot"

var (
	// Registry holds the bot's collectors. It is served by Server.
	Registry = prometheus.NewRegistry()

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Completed intake forms by outcome.",
		},
		[]string{"outcome"},
	)

	duplicates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_total",
			Help:      "Duplicate submissions detected, by the step that caught them.",
		},
		[]string{"stage"},
	)

	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_decisions_total",
			Help:      "Admin review decisions.",
		},
		[]string{"decision"},
	)

	gifts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gifts_total",
			Help:      "Gift delivery attempts by status.",
		},
		[]string{"status"},
	)

	adminAuth = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_auth_total",
			Help:      "Admin password attempts by outcome.",
		},
		[]string{"outcome"},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Approved list exports by status.",
		},
		[]string{"status"},
	)

	sessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Conversation sessions dropped after staying idle past the TTL.",
		},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open conversation sessions after the last sweep.",
		},
	)

	outbound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_outbound_total",
			Help:      "Queued Telegram API calls by action and result kind.",
		},
		[]string{"action", "kind"},
	)

	applications = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "applications",
			Help:      "Current number of applications per set.",
		},
		[]string{"set"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		submissions,
		duplicates,
		decisions,
		gifts,
		adminAuth,
		exports,
		sessionsExpired,
		sessionsActive,
		outbound,
		applications,
	)
}

// Duplicate stages.
const (
	StageTrigger = "trigger"
	StageCommit  = "commit"
)

// RecordSubmission counts a finished intake form.
func RecordSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

// RecordDuplicate counts a duplicate detected at stage.
func RecordDuplicate(stage string) {
	duplicates.WithLabelValues(stage).Inc()
}

// RecordDecision counts an approve or reject decision.
func RecordDecision(decision string) {
	decisions.WithLabelValues(decision).Inc()
}

// RecordGift counts a gift delivery attempt.
func RecordGift(ok bool) {
	gifts.WithLabelValues(status(ok)).Inc()
}

// RecordAdminAuth counts an admin password attempt.
func RecordAdminAuth(ok bool) {
	adminAuth.WithLabelValues(status(ok)).Inc()
}

// RecordExport counts an approved list export.
func RecordExport(ok bool) {
	exports.WithLabelValues(status(ok)).Inc()
}

// RecordSessionsExpired adds n expired sessions.
func RecordSessionsExpired(n int) {
	if n > 0 {
		sessionsExpired.Add(float64(n))
	}
}

// SetActiveSessions sets the open session gauge.
func SetActiveSessions(n int) {
	sessionsActive.Set(float64(n))
}

// RecordOutbound counts a finished outbound Telegram call. kind is "ok" or
// an error class.
func RecordOutbound(action, kind string) {
	outbound.WithLabelValues(action, kind).Inc()
}

// SetApplications publishes the current set sizes.
func SetApplications(pending, approved int) {
	applications.WithLabelValues("pending").Set(float64(pending))
	applications.WithLabelValues("approved").Set(float64(approved))
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
