package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkinsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doorman_checkins_total",
		Help: "Total number of guests checked in",
	})
	undosTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doorman_undos_total",
		Help: "Total number of check-ins reversed",
	})
	loginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doorman_logins_total",
		Help: "Total number of successful logins",
	})
	authFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doorman_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	})
	auditWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "doorman_audit_write_failures_total",
		Help: "Total number of audit rows that could not be written",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(checkinsTotal, undosTotal, loginsTotal, authFailuresTotal, auditWriteFailuresTotal)
}

// IncCheckin increments the check-in counter.
func IncCheckin() { checkinsTotal.Inc() }

// IncUndo increments the undo counter.
func IncUndo() { undosTotal.Inc() }

// IncLogin increments the successful login counter.
func IncLogin() { loginsTotal.Inc() }

// IncAuthFailure increments the failed authentication counter.
func IncAuthFailure() { authFailuresTotal.Inc() }

// IncAuditWriteFailure increments the dropped audit row counter.
func IncAuditWriteFailure() { auditWriteFailuresTotal.Inc() }
