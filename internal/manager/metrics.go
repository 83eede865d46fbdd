package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	inferenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiond",
			Subsystem: "inference",
			Name:      "completions_total",
			Help:      "Chat completions by result (ok, error, busy)",
		},
		[]string{"result"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "visiond",
			Subsystem: "inference",
			Name:      "duration_seconds",
			Help:      "Duration of chat completions in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
	)
)

func init() {
	prometheus.MustRegister(inferenceTotal, inferenceDuration)
}
