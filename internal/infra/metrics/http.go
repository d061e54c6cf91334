package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(httpRequestsTotal, uploadsTotal, uploadBytes)
}

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status class.",
	},
	[]string{"route", "class"},
)

var uploadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Accepted media uploads by kind (image, audio, youtube).",
	},
	[]string{"kind"},
)

var uploadBytes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_upload_bytes_total",
		Help: "Bytes accepted per upload kind.",
	},
	[]string{"kind"},
)

func IncHTTPRequest(route string, statusCode int) {
	class := "2xx"
	switch {
	case statusCode >= 500:
		class = "5xx"
	case statusCode >= 400:
		class = "4xx"
	case statusCode >= 300:
		class = "3xx"
	}
	httpRequestsTotal.WithLabelValues(route, class).Inc()
}

func ObserveUpload(kind string, size int64) {
	uploadsTotal.WithLabelValues(norm(kind)).Inc()
	uploadBytes.WithLabelValues(norm(kind)).Add(float64(size))
}
