package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/imaginify-dev/imaginify/internal/config"
	"github.com/imaginify-dev/imaginify/pkg/download"
	"github.com/imaginify-dev/imaginify/pkg/middleware"
	"github.com/imaginify-dev/imaginify/pkg/toast"
	"github.com/imaginify-dev/imaginify/pkg/upload"
)

const janitorInterval = 5 * time.Minute

// Server is the Imaginify HTTP service.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   trace.TracerProvider

	store      upload.Store
	downloader *download.Client
	hub        *toast.Hub
	limiter    *middleware.IPRateLimiter

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegistry sets the Prometheus registry served on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithTracerProvider sets the tracer provider for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// WithStore sets the upload store. The default is a DiskStore in
// upload.dir.
func WithStore(store upload.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithDownloader sets the download client.
func WithDownloader(c *download.Client) Option {
	return func(s *Server) { s.downloader = c }
}

// WithHub sets the toast hub.
func WithHub(h *toast.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// New builds the service from cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.store == nil {
		store, err := upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	if s.downloader == nil {
		s.downloader = download.NewClient(
			download.WithTimeout(cfg.DownloadTimeout()),
			download.WithAllowedHosts(cfg.Download.AllowedHosts...),
			download.WithRegistry(s.registry),
			download.WithLogger(s.logger.With("component", "download")),
		)
	}
	if s.hub == nil {
		s.hub = toast.NewHub(
			toast.WithLogger(s.logger.With("component", "toast")),
			toast.WithAllowedOrigins(cfg.Server.CORSOrigins...),
		)
	}
	if rl := cfg.Server.RateLimit; rl.RPS > 0 {
		s.limiter = middleware.NewIPRateLimiter(rl.RPS, rl.Burst)
	}

	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))

	tracingOpts := []middleware.OTelOption{
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	}
	if s.tracer != nil {
		tracingOpts = append(tracingOpts, middleware.WithTracerProvider(s.tracer))
	}
	r.Use(middleware.Tracing(tracingOpts...))

	if s.cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(s.cfg.Metrics.Namespace),
		))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/shimmer/{size}", s.handleShimmerSVG)
	r.Handle("/ws/toasts", s.hub)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(middleware.RateLimit(s.limiter))
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/shimmer", s.handleShimmerDataURL)
			r.Post("/merge", s.handleMerge)
			r.Get("/query/form", s.handleQueryForm)
			r.Get("/query/remove", s.handleQueryRemove)
			r.Get("/aspect-ratios", s.handleAspectRatios)
			r.Route("/transformations", func(r chi.Router) {
				r.Get("/", s.handleTransformations)
				r.Get("/{type}", s.handleTransformation)
				r.Get("/{type}/size", s.handleTransformationSize)
				r.Post("/{type}/config", s.handleTransformationConfig)
			})
		})

		r.Method(http.MethodGet, "/download", download.Handler(s.downloader))
		r.Method(http.MethodPost, "/upload", upload.HandlerWithConfig(s.store, &upload.Config{
			MaxFileSize:  s.cfg.Upload.MaxFileSize,
			AllowedTypes: upload.ImageTypes,
			TempExpiry:   s.cfg.TempExpiry(),
			Logger:       s.logger.With("component", "upload"),
			OnSaved: func(upload.Response) {
				toast.WithTitle(s.hub, toast.TypeSuccess, "Image uploaded successfully", "1 credit was deducted from your account")
			},
		}))
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the toast hub.
func (s *Server) Hub() *toast.Hub { return s.hub }

// Registry returns the Prometheus registry.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. The
// toast hub, rate limiter pruning and upload cleanup run for the same
// lifetime.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.hub.Run(ctx)
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}
	upload.StartJanitor(ctx, s.store, janitorInterval, s.cfg.TempExpiry(), s.logger.With("component", "upload"))

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("imaginify listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer done()
	s.logger.Info("imaginify shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
