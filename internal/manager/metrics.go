package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "synapd",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Model loads by artifact source",
		},
		[]string{"source"},
	)

	loadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "synapd",
			Subsystem: "manager",
			Name:      "load_failures_total",
			Help:      "Model loads that failed to compile or load",
		},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "synapd",
			Subsystem: "manager",
			Name:      "runs_total",
			Help:      "Inference passes by result",
		},
		[]string{"model", "result"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "synapd",
			Subsystem: "manager",
			Name:      "run_duration_seconds",
			Help:      "Duration of inference passes in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"model"},
	)

	instancesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "synapd",
			Subsystem: "manager",
			Name:      "instances",
			Help:      "Instances currently held by the manager",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsCounter, loadFailuresTotal, runsTotal, runDuration, instancesGauge)
}
