package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "api_requests_total", Help: "Remote store requests",
	}, []string{"op", "outcome"})
	APIDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rollbook", Name: "api_request_seconds", Help: "Remote store request latency",
		Buckets: prometheus.DefBuckets,
	})
	SaveRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "save_records_total", Help: "Bulk-save record outcomes",
	}, []string{"result"}) // created|updated|skipped|failed
	SaveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "save_failures_total", Help: "Bulk saves ending with at least one failed record",
	})
)

func init() {
	prometheus.MustRegister(APIRequests, APIDuration, SaveRecords, SaveFailures)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveAPI(op string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	APIRequests.WithLabelValues(op, outcome).Inc()
	APIDuration.Observe(d.Seconds())
}
