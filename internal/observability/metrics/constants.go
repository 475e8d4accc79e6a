// Package metrics provides the Prometheus collectors for each application component.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// latencyBuckets covers 1ms to roughly 16s.
	latencyBuckets = prometheus.ExponentialBuckets(0.001, 2, 15)
	sizeBuckets    = prometheus.ExponentialBuckets(64, 2, 10)
)

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
