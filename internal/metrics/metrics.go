package metrics

import (
    "net/http"
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    providerReqs = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "vibedoc",
            Name:      "provider_requests_total",
            Help:      "Total remote provider requests by provider, operation and result",
        },
        []string{"provider", "operation", "result"},
    )

    providerLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "vibedoc",
            Name:      "provider_request_duration_seconds",
            Help:      "Duration of remote provider requests by provider and operation",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"provider", "operation"},
    )

    pipelineStages = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "vibedoc",
            Name:      "pipeline_stages_total",
            Help:      "Form enrichment pipeline stage transitions by stage",
        },
        []string{"stage"},
    )

    inputsCreated = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "vibedoc",
            Name:      "inputs_created_total",
            Help:      "Total Input rows written by the enrichment pipeline",
        },
    )

    fills = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "vibedoc",
            Name:      "pdf_fills_total",
            Help:      "PDF fill requests by strategy and result",
        },
        []string{"strategy", "result"},
    )

    fillFields = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "vibedoc",
            Name:      "pdf_fill_fields_total",
            Help:      "Fields handled by local fills, applied or skipped",
        },
        []string{"outcome"},
    )

    queueDepth = prometheus.NewGaugeVec(
        prometheus.GaugeOpts{
            Namespace: "vibedoc",
            Name:      "queue_depth",
            Help:      "Enrichment queue depth",
        },
        []string{"type"},
    )

    once sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
    once.Do(func() {
        prometheus.MustRegister(providerReqs, providerLatency, pipelineStages, inputsCreated, fills, fillFields, queueDepth)
    })
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveProvider(provider, operation, result string, dur time.Duration) {
    providerReqs.WithLabelValues(provider, operation, result).Inc()
    providerLatency.WithLabelValues(provider, operation).Observe(dur.Seconds())
}

func IncStage(stage string)       { pipelineStages.WithLabelValues(stage).Inc() }
func AddInputs(n int)             { inputsCreated.Add(float64(n)) }
func IncFill(strategy, result string) { fills.WithLabelValues(strategy, result).Inc() }

func AddFillFields(applied, skipped int) {
    fillFields.WithLabelValues("applied").Add(float64(applied))
    fillFields.WithLabelValues("skipped").Add(float64(skipped))
}

func SetQueueDepth(kind string, v int64) { queueDepth.WithLabelValues(kind).Set(float64(v)) }

// Result maps an error to the result label used by the counters.
func Result(err error) string {
    if err != nil { return "error" }
    return "success"
}
