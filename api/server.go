package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

type Config struct {
	Host      string `default:"0.0.0.0"`
	Port      int    `default:"8000"`
	StaticDir string `split_words:"true" default:"static"`

	// InquiryTimeout bounds one processor call. Zero means no deadline.
	InquiryTimeout  time.Duration `split_words:"true" default:"0s"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"10m"`
	IdleTimeout     time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", contractx.ErrValidation, c.Port)
	}
	if c.InquiryTimeout < 0 {
		return fmt.Errorf("%w: inquiry timeout must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server is the HTTP surface of the support service.
type Server struct {
	cfg       Config
	processor contractx.Processor
	logger    zerolog.Logger

	router    *http.ServeMux
	server    *http.Server
	staticDir string
}

func NewServer(cfg Config, processor contractx.Processor, opts ...Option) (*Server, error) {
	if processor == nil {
		return nil, errors.New("inquiry processor is required")
	}

	s := &Server{
		cfg:       cfg,
		processor: processor,
		logger:    log.Logger,
		router:    http.NewServeMux(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		s.staticDir = cfg.StaticDir
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.applyMiddleware(s.router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// Start blocks until the server stops. A graceful Shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Bool("static", s.staticDir != "").Msg("starting http server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}
