package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "tidewidget"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0},
		},
		[]string{"verb", "path", "code"},
	)

	refreshLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "refresh_latency",
			Subsystem: subsystem,
			Help:      "Snapshot refresh latencies in seconds.",
			Buckets:   []float64{0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"result"},
	)

	spotFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "spot_fetches_total",
			Subsystem: subsystem,
			Help:      "Spot fetches by spot and result.",
		},
		[]string{"spot", "result"},
	)

	droppedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:      "dropped_tide_events_total",
			Subsystem: subsystem,
			Help:      "Tide events rejected as incomplete or of unknown type.",
		},
	)

	fallbackSamples = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "fallback_samples",
			Subsystem: subsystem,
			Help:      "Forecast samples in the latest snapshot that fell outside the known tide range.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		refreshLatency,
		spotFetches,
		droppedEvents,
		fallbackSamples,
	)
}

// ObserveRefresh records how long a snapshot refresh took
func ObserveRefresh(err error, latency time.Duration) {
	refreshLatency.With(prometheus.Labels{"result": result(err)}).Observe(latency.Seconds())
}

// ObserveSpotFetch counts one fetch of a spot
func ObserveSpotFetch(spot string, err error) {
	spotFetches.With(prometheus.Labels{"spot": spot, "result": result(err)}).Inc()
}

// ObserveForecast records data quality of a freshly built forecast
func ObserveForecast(dropped, fallback int) {
	droppedEvents.Add(float64(dropped))
	fallbackSamples.Set(float64(fallback))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// LatencyHandler records the latency of every request served by next
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		// Panics in next are reported as 500 errors and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.status), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
