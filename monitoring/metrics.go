package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_commands_total",
			Help: "Total commands processed, by command kind and status",
		},
		[]string{"command", "status"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticket_command_duration_seconds",
			Help:    "Time spent applying one command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_rejections_total",
			Help: "Total rejected commands, by rejection reason",
		},
		[]string{"reason"},
	)

	availability = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticket_availability",
			Help: "Remaining ticket capacity per event",
		},
		[]string{"event_id"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_notifications_total",
			Help: "Domain notifications published, by type",
		},
		[]string{"type"},
	)
)

// TrackCommand records one processed command with its outcome status
// ("success" or the rejection reason).
func TrackCommand(command, status string) {
	commandsProcessed.WithLabelValues(command, status).Inc()
}

// TrackCommandDuration records how long one command took to apply.
func TrackCommandDuration(command string, d time.Duration) {
	commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// TrackRejection records one rejected command by reason.
func TrackRejection(reason string) {
	rejections.WithLabelValues(reason).Inc()
}

// SetAvailability publishes the current remaining capacity of an event.
func SetAvailability(eventID, remaining uint64) {
	availability.WithLabelValues(strconv.FormatUint(eventID, 10)).Set(float64(remaining))
}

// TrackNotification records one published domain notification.
func TrackNotification(notificationType string) {
	notifications.WithLabelValues(notificationType).Inc()
}
