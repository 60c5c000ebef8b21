package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/portfolio-backend/internal/config"
	"go.uber.org/zap"
)

// Server is the public HTTP API of the portfolio backend
type Server struct {
	cfg    config.ServerConfig
	logger *zap.Logger
	engine *gin.Engine
	http   *http.Server
}

// NewServer wires the routes for svc and profile into a gin engine
func NewServer(svc ContactAPI, profile ProfileAPI, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware(logger))
	engine.Use(corsMiddleware(cfg.AllowedOrigins))

	if cfg.AdminToken == "" {
		logger.Warn("server.admin_token is empty, message admin routes are unauthenticated")
	}

	h := &handler{svc: svc, profile: profile, logger: logger}
	registerRoutes(engine, h, cfg.AdminToken)

	return &Server{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		http: &http.Server{
			Addr:         cfg.ListenAddress,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

func registerRoutes(r *gin.Engine, h *handler, adminToken string) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/SubmitContactForm", h.submitContactForm)
	api.POST("/AnalyzeMessage", h.analyzeMessage)
	api.GET("/GetVisitorCount", h.visitorCount)
	api.POST("/GetVisitorCount", h.visitorCount)
	api.POST("/TrackResumeDownload", h.trackResumeDownload)
	api.GET("/GetResumeStats", h.resumeStats)
	api.GET("/GetGitHubStats", h.githubStats)

	admin := api.Group("/messages", adminAuthMiddleware(adminToken))
	admin.GET("", h.listMessages)
	admin.GET("/:id", h.getMessage)
	admin.PATCH("/:id", h.updateMessage)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Name identifies the server in logs
func (s *Server) Name() string {
	return "http-api"
}

// Start listens on the configured address in the background
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return err
	}
	s.logger.Info("HTTP API starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop drains open requests within the shutdown timeout
func (s *Server) Stop() error {
	ctx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}
