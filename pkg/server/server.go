package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"igdlapi/pkg/config"
	"igdlapi/pkg/downloader"
	"igdlapi/pkg/logger"
	"igdlapi/pkg/ratelimit"
	"igdlapi/pkg/storage"
)

// Server is the HTTP surface of the downloader API.
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	service     *downloader.Service
	limiter     ratelimit.Limiter
	spool       *storage.Spool
	cfg         *config.Config
	logger      logger.Logger
	proxyClient *http.Client
}

// New wires the service, rate limiter and proxy spool into a gin engine.
func New(cfg *config.Config, service *downloader.Service, limiter ratelimit.Limiter, spool *storage.Spool, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	_ = engine.SetTrustedProxies(cfg.Server.TrustedProxies)

	s := &Server{
		engine:  engine,
		service: service,
		limiter: limiter,
		spool:   spool,
		cfg:     cfg,
		logger:  log,
		proxyClient: &http.Client{
			Timeout: cfg.Proxy.Timeout,
		},
	}

	engine.Use(gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		log.WithField("panic", fmt.Sprintf("%v", err)).Error("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}))
	engine.Use(RequestID())
	engine.Use(RequestLogger(log))
	engine.Use(CORS())
	engine.Use(RateLimit(limiter))

	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: engine,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/download", s.handleDownload)
	s.engine.POST("/download/:type", s.handleDownloadByType)
	s.engine.POST("/info", s.handleInfo)
	s.engine.GET("/proxy", s.handleProxy)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("Endpoint not found"))
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody("Method not allowed"))
	})
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
