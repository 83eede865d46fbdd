package provision

import "github.com/prometheus/client_golang/prometheus"

var (
	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiond",
			Subsystem: "provision",
			Name:      "downloads_total",
			Help:      "Artifact downloads by role and result",
		},
		[]string{"role", "result"},
	)

	downloadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiond",
			Subsystem: "provision",
			Name:      "download_bytes_total",
			Help:      "Bytes downloaded from the artifact hub",
		},
		[]string{"role"},
	)
)

func init() {
	prometheus.MustRegister(downloadsTotal, downloadBytes)
}
