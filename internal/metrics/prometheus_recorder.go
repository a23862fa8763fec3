package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once               sync.Once
	generations        *prom.CounterVec
	renders            *prom.CounterVec
	generationDuration prom.Histogram
	renderDuration     prom.Histogram
	watchRerenders     prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.generations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "datamodeler",
			Name:      "generations_total",
			Help:      "Generation runs by species and result",
		}, []string{"species", "result"})
		pr.renders = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "datamodeler",
			Name:      "renders_total",
			Help:      "Document render runs by species and result",
		}, []string{"species", "result"})
		pr.generationDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "datamodeler",
			Name:      "generation_duration_seconds",
			Help:      "Total duration of full generation runs",
			Buckets:   prom.DefBuckets,
		})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "datamodeler",
			Name:      "render_duration_seconds",
			Help:      "Duration of document rendering",
			Buckets:   prom.DefBuckets,
		})
		pr.watchRerenders = prom.NewCounter(prom.CounterOpts{
			Namespace: "datamodeler",
			Name:      "watch_rerenders_total",
			Help:      "Re-renders triggered by watch mode",
		})
		reg.MustRegister(pr.generations, pr.renders, pr.generationDuration, pr.renderDuration, pr.watchRerenders)
	})
	return pr
}

func (pr *PrometheusRecorder) IncGeneration(species string, result ResultLabel) {
	pr.generations.WithLabelValues(species, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRender(species string, result ResultLabel) {
	pr.renders.WithLabelValues(species, string(result)).Inc()
}

func (pr *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	pr.generationDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	pr.renderDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncWatchRerender() {
	pr.watchRerenders.Inc()
}

// HTTPHandler returns an http.Handler serving Prometheus metrics for the registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
