package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
)

// Metrics holds the Prometheus collectors of the API
type Metrics struct {
	registry *prometheus.Registry

	// requestTotal counts requests by route, method and status
	requestTotal *prometheus.CounterVec
	// requestDuration tracks handler latency by route and method
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry with request metrics and register gauges
// computed from the current state on every scrape.
func NewMetrics(uc *usecase.UseCases) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskreg_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskreg_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"route", "method"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "riskreg_risks",
		Help: "Number of risks in the register",
	}, func() float64 {
		return float64(len(snapshot(uc)))
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "riskreg_risks_above_appetite",
		Help: "Number of risks whose inherent score reaches the configured appetite",
	}, func() float64 {
		return float64(aggregate.CountAboveAppetite(snapshot(uc), uc.Settings().Appetite))
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "riskreg_control_coverage_percent",
		Help: "Percentage of risks with at least one mapped control",
	}, func() float64 {
		return float64(aggregate.Coverage(snapshot(uc)))
	})

	return m
}

func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func snapshot(uc *usecase.UseCases) []*model.Risk {
	ctx := context.Background()
	risks, err := uc.Risk.ListRisks(ctx, aggregate.ListFilter{})
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to list risks for metrics")
		return nil
	}
	return risks
}
