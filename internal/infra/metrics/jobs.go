package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(videoJobsTotal, videoJobsEnqueued, encodeSeconds, queueDepthGauge)
}

var videoJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "video_jobs_total",
		Help: "Video generation jobs finished, labeled by terminal status and execution mode.",
	},
	[]string{"status", "mode"}, // 'succeeded'|'failed', 'inline'|'queue'
)

var videoJobsEnqueued = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "video_jobs_enqueued_total",
		Help: "Jobs published to the broker.",
	},
)

var encodeSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "video_encode_seconds",
		Help:    "Wall-clock composition duration in seconds.",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200, 1800},
	},
)

var queueDepthGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "video_queue_depth",
		Help: "Pending jobs in the broker list, sampled on enqueue/dequeue.",
	},
)

func IncVideoJob(status, mode string) {
	videoJobsTotal.WithLabelValues(norm(status), norm(mode)).Inc()
}

func IncEnqueued() { videoJobsEnqueued.Inc() }

func ObserveEncodeDuration(seconds float64) { encodeSeconds.Observe(seconds) }

func SetQueueDepth(n int64) { queueDepthGauge.Set(float64(n)) }
