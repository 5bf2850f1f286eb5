package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	spawnsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "spawns_total",
		Help:      "Total number of processes spawned.",
	})

	spawnFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "spawn_failures_total",
		Help:      "Total number of process creations that failed at the OS level.",
	})

	eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "events_total",
		Help:      "Process events emitted, partitioned by event type.",
	}, []string{"type"})

	killRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "kill_requests_total",
		Help:      "Termination requests issued, partitioned by mode (single or tree).",
	}, []string{"mode"})

	killFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "kill_failures_total",
		Help:      "Termination requests that reported an error.",
	})

	processLifetime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "procwatch",
		Name:      "process_lifetime_seconds",
		Help:      "Observed lifetime of spawned processes in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procwatch",
		Name:      "build_info",
		Help:      "Build metadata for the running procwatch binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(spawnsTotal, spawnFailures, eventsTotal, killRequests, killFailures, processLifetime, buildInfo)
}

// Registry returns the Prometheus registry containing all procwatch metrics.
func Registry() *prometheus.Registry {
	return registry
}

// IncrementSpawns records a successful process creation.
func IncrementSpawns() {
	spawnsTotal.Inc()
}

// IncrementSpawnFailures records a process creation that failed.
func IncrementSpawnFailures() {
	spawnFailures.Inc()
}

// IncrementEvents records an emitted process event of the given type.
func IncrementEvents(eventType string) {
	if eventType == "" {
		return
	}
	eventsTotal.WithLabelValues(eventType).Inc()
}

// IncrementKillRequests records a termination request in the given mode.
func IncrementKillRequests(mode string) {
	if mode == "" {
		mode = "single"
	}
	killRequests.WithLabelValues(mode).Inc()
}

// IncrementKillFailures records a termination request that reported an error.
func IncrementKillFailures() {
	killFailures.Inc()
}

// ObserveProcessLifetime records how long a spawned process ran.
func ObserveProcessLifetime(d time.Duration) {
	if d < 0 {
		return
	}
	processLifetime.Observe(d.Seconds())
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
