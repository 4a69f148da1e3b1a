// Package server serves the résumé site: the terminal intro, the résumé
// page with its GitHub activity panel, the print layout and a small
// privacy-conscious admin area.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"github.com/Zachkp/resume-site/internal/clock"
	"github.com/Zachkp/resume-site/internal/config"
	"github.com/Zachkp/resume-site/internal/contrib"
	"github.com/Zachkp/resume-site/internal/intro"
	"github.com/Zachkp/resume-site/internal/logging"
	"github.com/Zachkp/resume-site/internal/resume"
	"github.com/Zachkp/resume-site/internal/store"
)

// Options wires a Server. Resume, Fetcher and Store are required.
type Options struct {
	Config  config.Config
	Resume  *resume.Resume
	Fetcher *contrib.Fetcher
	Store   *store.Store
	Script  intro.Script
	// Timing picks intro delays per device. Defaults to intro.TimingFor.
	Timing func(intro.DeviceClass) intro.Timing
	Clock  clock.Clock
	Logger *slog.Logger
}

// Server holds the routes and their dependencies.
type Server struct {
	cfg       config.Config
	resume    atomic.Pointer[resume.Resume]
	fetcher   *contrib.Fetcher
	store     *store.Store
	script    intro.Script
	timing    func(intro.DeviceClass) intro.Timing
	clock     clock.Clock
	logger    *slog.Logger
	templates *template.Template

	adminToken string
	engine     *gin.Engine
	handler    http.Handler

	// bg tracks fire-and-forget writes so shutdown can wait for them.
	bg sync.WaitGroup
}

func New(opts Options) (*Server, error) {
	if opts.Resume == nil || opts.Fetcher == nil || opts.Store == nil {
		return nil, errors.New("server: resume, fetcher and store are required")
	}

	s := &Server{
		cfg:     opts.Config,
		fetcher: opts.Fetcher,
		store:   opts.Store,
		script:  opts.Script,
		timing:  opts.Timing,
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
	s.resume.Store(opts.Resume)
	if s.script == nil {
		s.script = intro.DefaultScript
	}
	if s.timing == nil {
		s.timing = intro.TimingFor
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	token, err := store.RandomToken()
	if err != nil {
		return nil, fmt.Errorf("server: admin token: %w", err)
	}
	s.adminToken = token

	s.templates, err = parseTemplates(s.clock)
	if err != nil {
		return nil, err
	}

	if s.cfg.GinMode != "" {
		gin.SetMode(s.cfg.GinMode)
	}
	s.engine = gin.New()
	s.engine.SetHTMLTemplate(s.templates)
	s.engine.Use(requestLogger(s.logger), gin.Recovery(), s.visitorTracking())
	s.routes()

	gz, err := gzhttp.NewWrapper(
		gzhttp.MinSize(1024),
		gzhttp.ExceptContentTypes([]string{"text/event-stream"}),
	)
	if err != nil {
		return nil, fmt.Errorf("server: gzip wrapper: %w", err)
	}
	s.handler = gz(s.engine)

	s.logger.Info("admin access available", "path", "/admin/login")
	if gin.Mode() == gin.DebugMode {
		s.logger.Debug("admin token (dev only)", "token", s.adminToken)
	}
	if s.cfg.DefaultCredentials() {
		s.logger.Warn("using default admin credentials; set RESUME_ADMIN_USERNAME and RESUME_ADMIN_PASSWORD")
	}
	s.logger.Info("privacy: visitor tracking enabled with hashed IP addresses")
	return s, nil
}

func (s *Server) routes() {
	r := s.engine
	r.StaticFS("/static", staticFS())

	r.GET("/", s.index)
	r.GET("/intro/stream", s.introStream)
	r.GET("/intro/seen", s.introSeen)
	r.GET("/activity", s.activity)
	r.GET("/print", s.print)
	r.GET("/api/resume", s.apiResume)
	r.GET("/api/contributions/:user", s.apiContributions)
	r.GET("/healthz", s.healthz)

	s.adminRoutes()
}

// doc is the résumé currently being served.
func (s *Server) doc() *resume.Resume { return s.resume.Load() }

// SetResume swaps the served résumé. Requests already rendering keep the
// version they started with.
func (s *Server) SetResume(r *resume.Resume) {
	if r == nil {
		return
	}
	s.resume.Store(r)
}

// Handler is the compressed root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves on the configured address until ctx is cancelled, then
// shuts down gracefully and waits for pending background writes.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanupDone := make(chan struct{})
	go func() {
		defer close(cleanupDone)
		s.cleanupLoop(ctx)
	}()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", "http://localhost"+srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		<-cleanupDone
		s.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-cleanupDone
	s.Wait()
	return err
}

// Wait blocks until background writes have finished.
func (s *Server) Wait() { s.bg.Wait() }

// cleanupLoop runs the privacy cleanup at startup and then daily.
func (s *Server) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for {
		if _, err := s.store.Cleanup(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("privacy cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// background runs fn off the request path with a context that outlives
// the request.
func (s *Server) background(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(ctx)
	}()
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
