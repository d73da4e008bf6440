package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the registry served on the metrics listener. The
// running version is exposed as gymsplits_version_info{version="..."} 1.
func SetupPrometheus(versionInfo string, extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	if versionInfo == "" {
		versionInfo = "unknown"
	}
	versionGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "gymsplits",
		Name:        "version_info",
		Help:        "The running service version (git commit)",
		ConstLabels: prometheus.Labels{"version": versionInfo},
	})
	versionGauge.Set(1)

	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versionGauge,
	)
	promRegistry.MustRegister(extraCollectors...)

	return promRegistry
}
