package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/san-kum/fluidbg/internal/config"
	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
)

const shutdownTimeout = 10 * time.Second

// FrameSource renders encoded frames. *fluid.Generator satisfies it.
type FrameSource interface {
	FrameDataURI(t float64, scheme string, format frame.Format) (string, error)
	Info() fluid.Info
}

type Server struct {
	cfg     config.ServerConfig
	source  FrameSource
	log     *zap.Logger
	clock   func() time.Time
	limiter *rate.Limiter
}

type Option func(*Server)

// WithClock replaces the wall clock used for default frame times.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) { s.clock = clock }
}

func New(cfg config.ServerConfig, source FrameSource, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		source: source,
		log:    logger.Named("server"),
		clock:  time.Now,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeoutMs > 0 {
		r.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeoutMs) * time.Millisecond))
	}
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/fluid-config", s.handleConfig)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Get("/fluid-frame", s.handleFrame)
			r.Get("/fluid-stream", s.handleStream)
		})
	})

	if s.cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	return r
}

// Serve handles connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	info := s.source.Info()
	s.log.Info("serving fluid backgrounds",
		zap.String("addr", ln.Addr().String()),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.String("device", info.Device),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe binds cfg.Addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
