package download

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	fetches *prometheus.CounterVec
	bytes   prometheus.Histogram
}

// newMetrics creates the download metrics. A nil registerer leaves them
// unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imaginify",
			Subsystem: "download",
			Name:      "fetches_total",
			Help:      "Image fetches by outcome",
		}, []string{"outcome"}),

		bytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "imaginify",
			Subsystem: "download",
			Name:      "bytes",
			Help:      "Size of images written to disk",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 7), // 16KB to 64MB
		}),
	}
}
