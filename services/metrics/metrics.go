package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName groups pushed metrics on the Pushgateway
const JobName = "offerwatch"

// Recorder collects the counters of one run. Runs are short-lived, so the
// values are pushed instead of scraped.
type Recorder struct {
	registry *prometheus.Registry

	offersFetched    *prometheus.CounterVec
	offersRejected   *prometheus.CounterVec
	offersRetained   *prometheus.CounterVec
	offersNew        *prometheus.CounterVec
	keywordFailures  *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	lastRunTimestamp prometheus.Gauge
	runDuration      prometheus.Gauge
}

// NewRecorder registers all collectors on a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		offersFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_offers_fetched_total",
			Help: "Raw items returned by the offer API.",
		}, []string{"keyword"}),
		offersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_offers_rejected_total",
			Help: "Items dropped by normalization or price filtering.",
		}, []string{"keyword", "reason"}),
		offersRetained: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_offers_retained_total",
			Help: "Offers at or below the price ceiling.",
		}, []string{"keyword"}),
		offersNew: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_offers_new_total",
			Help: "Offers not present in the previous snapshot.",
		}, []string{"keyword"}),
		keywordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_keyword_failures_total",
			Help: "Keywords whose fetch failed.",
		}, []string{"keyword"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerwatch_notifications_total",
			Help: "Notification attempts by channel and result.",
		}, []string{"channel", "result"}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offerwatch_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offerwatch_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
	}

	r.registry.MustRegister(
		r.offersFetched,
		r.offersRejected,
		r.offersRetained,
		r.offersNew,
		r.keywordFailures,
		r.notifications,
		r.lastRunTimestamp,
		r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Fetched records raw items returned for keyword
func (r *Recorder) Fetched(keyword string, n int) {
	r.offersFetched.WithLabelValues(keyword).Add(float64(n))
}

// Rejected records one dropped item
func (r *Recorder) Rejected(keyword, reason string) {
	r.offersRejected.WithLabelValues(keyword, reason).Inc()
}

// Retained records offers that passed the price filter
func (r *Recorder) Retained(keyword string, n int) {
	r.offersRetained.WithLabelValues(keyword).Add(float64(n))
}

// New records offers surfaced as new
func (r *Recorder) New(keyword string, n int) {
	r.offersNew.WithLabelValues(keyword).Add(float64(n))
}

// KeywordFailed records a failed keyword fetch
func (r *Recorder) KeywordFailed(keyword string) {
	r.keywordFailures.WithLabelValues(keyword).Inc()
}

// Notified records a delivery attempt
func (r *Recorder) Notified(channel string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.notifications.WithLabelValues(channel, result).Inc()
}

// Finished records the end of the run
func (r *Recorder) Finished(started time.Time) {
	r.runDuration.Set(time.Since(started).Seconds())
	r.lastRunTimestamp.SetToCurrentTime()
}

// Push replaces this job's metrics on the Pushgateway at url
func (r *Recorder) Push(ctx context.Context, url string) error {
	return push.New(url, JobName).Gatherer(r.registry).PushContext(ctx)
}
