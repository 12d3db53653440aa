package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdex-network/token-launcher/pkg/near"
)

const namespace = "launcher"

// Metrics collects latency and outcome of every RPC sent to the node.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rpc_requests_total",
			Help:      "Number of JSON-RPC requests sent to the ledger node.",
		}, []string{"method", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rpc_duration_seconds",
			Help:      "Latency of JSON-RPC requests sent to the ledger node.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observer returns the hook to plug into the RPC client.
func (m *Metrics) Observer() near.Observer {
	return func(method string, elapsed time.Duration, err error) {
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.requests.WithLabelValues(method, result).Inc()
		m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}
