package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
)

// DefaultMaxUploadBytes caps the size of a multipart attachment upload
const DefaultMaxUploadBytes int64 = 10 << 20

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	metrics        *Metrics
	maxUploadBytes int64
	digest         DigestPoster
}

// DigestPoster sends one register digest on demand
type DigestPoster interface {
	Post(ctx context.Context) error
}

type Options func(*Server)

// WithMetrics serves the collectors of m at /metrics and records request metrics
func WithMetrics(m *Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithMaxUploadBytes(n int64) Options {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithDigest enables POST /api/digest
func WithDigest(p DigestPoster) Options {
	return func(s *Server) {
		s.digest = p
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		uc:             uc,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
		r.Get("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getRisk)
				r.Patch("/", s.updateMeta)
				r.Delete("/", s.deleteRisk)
				r.Post("/assessments", s.addAssessment)
				r.Post("/treatments", s.addTreatment)
				r.Post("/treatments/{tid}/toggle", s.toggleTreatment)
				r.Post("/treatments/{tid}/attachments", s.uploadAttachment)
				r.Get("/treatments/{tid}/attachments/{aid}", s.downloadAttachment)
				r.Put("/controls", s.setMappedControls)
				r.Post("/ticket", s.linkTicket)
			})
		})

		r.Get("/frameworks", s.listFrameworks)
		r.Get("/dashboard", s.dashboard)
		r.Get("/heatmap", s.heatmap)
		r.Get("/export", s.export)
		r.Post("/suggestions", s.suggest)
		r.Post("/digest", s.postDigest)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		ctx := logging.With(r.Context(), logging.From(r.Context()).With("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
