package tvcontrol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grandmatv",
		Name:      "commands_total",
		Help:      "Commands executed, labelled by action and outcome.",
	}, []string{"action", "outcome"})

	commandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grandmatv",
		Name:      "command_duration_seconds",
		Help:      "End-to-end command execution time, wake and retry included.",
		Buckets:   []float64{1, 5, 10, 15, 30, 60, 120, 180},
	})

	wakeSignalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "grandmatv",
		Name:      "wake_signals_total",
		Help:      "Wake-on-LAN bursts sent to the TV.",
	})

	busyRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "grandmatv",
		Name:      "busy_rejections_total",
		Help:      "Commands rejected because another command was running.",
	})
)

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeUnknown = "unknown"
)
