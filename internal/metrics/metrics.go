// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "survey_active_sessions",
			Help: "Number of survey sessions currently held in memory.",
		})

	SessionCreateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_session_create_total",
			Help: "Cumulative number of survey sessions started.",
		})

	SessionEvictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_session_evict_total",
			Help: "Cumulative number of sessions evicted, by reason.",
		}, []string{"reason"})

	StepTransitionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_step_transition_total",
			Help: "Cumulative number of wizard transitions, by target step.",
		}, []string{"step"})

	ValidationFailureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_validation_failure_total",
			Help: "Cumulative number of rejected field values, by field.",
		}, []string{"field"})

	RemoteCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_remote_call_total",
			Help: "Cumulative number of remote calls, by step and outcome.",
		}, []string{"step", "outcome"})

	DownloadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_download_total",
			Help: "Cumulative number of summary downloads served.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionCreateTotal,
		SessionEvictTotal,
		StepTransitionTotal,
		ValidationFailureTotal,
		RemoteCallTotal,
		DownloadTotal,
	)
}
