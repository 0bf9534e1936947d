package handlers

import (
  "net/http"
  "strconv"
  "time"

  "github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
  requestCount    *prometheus.CounterVec
  requestDuration *prometheus.HistogramVec
  subscriptions   *prometheus.CounterVec
  welcomeEmails   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
  m := &metrics{
    requestCount: prometheus.NewCounterVec(
      prometheus.CounterOpts{
        Name: "http_requests_total",
        Help: "Total number of HTTP requests processed.",
      },
      []string{"method", "path", "status"},
    ),
    requestDuration: prometheus.NewHistogramVec(
      prometheus.HistogramOpts{
        Name:    "http_request_duration_seconds",
        Help:    "HTTP request latency.",
        Buckets: prometheus.DefBuckets,
      },
      []string{"method", "path"},
    ),
    subscriptions: prometheus.NewCounterVec(
      prometheus.CounterOpts{
        Name: "landing_subscriptions_total",
        Help: "Subscribe attempts by outcome.",
      },
      []string{"outcome"},
    ),
    welcomeEmails: prometheus.NewCounterVec(
      prometheus.CounterOpts{
        Name: "landing_welcome_emails_total",
        Help: "Welcome email attempts by outcome.",
      },
      []string{"outcome"},
    ),
  }

  collectors := []prometheus.Collector{
    m.requestCount,
    m.requestDuration,
    m.subscriptions,
    m.welcomeEmails,
  }
  for _, c := range collectors {
    if err := reg.Register(c); err != nil {
      return nil, err
    }
  }

  return m, nil
}

// metricsMiddleware counts requests by route pattern. /metrics itself is
// not counted.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path == "/metrics" {
      next.ServeHTTP(w, r)
      return
    }

    start := time.Now()
    wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

    next.ServeHTTP(wrapped, r)

    // ServeMux records the matched pattern on the request.
    path := r.Pattern
    if path == "" {
      path = "unmatched"
    }

    h.metrics.requestCount.WithLabelValues(
      r.Method,
      path,
      strconv.Itoa(wrapped.statusCode),
    ).Inc()
    h.metrics.requestDuration.WithLabelValues(r.Method, path).
      Observe(time.Since(start).Seconds())
  })
}
