// Package server exposes the translation pipeline over HTTP with gin.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/valpere/formtran/internal"
)

var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Executor runs one translation request end to end.
type Executor interface {
	Execute(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error)
}

type Config struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	engine *gin.Engine
	addr   string
	logger *slog.Logger
}

func New(exec Executor, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(cfg.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	c := &TranslateController{Executor: exec, Logger: cfg.Logger}
	r.GET("/", c.Root)
	r.GET("/languages", c.Languages)
	r.POST("/translate", c.Translate)

	return &Server{engine: r, addr: cfg.Addr, logger: cfg.Logger}
}

// Handler returns the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
