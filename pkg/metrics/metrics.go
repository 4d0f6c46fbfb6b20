package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "login_attempts_total",
		Help:      "Login attempts by role and outcome.",
	}, []string{"role", "outcome"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "registrations_total",
		Help:      "Accounts registered by role.",
	}, []string{"role"})

	SchedulesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "schedules_created_total",
		Help:      "Class schedules created.",
	})

	MarksRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "marks_recorded_total",
		Help:      "Attendance marks written, by status.",
	}, []string{"status"})
)
