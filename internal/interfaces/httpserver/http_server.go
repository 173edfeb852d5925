package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"modai/services/message-api/internal/config"
	middleware "modai/services/message-api/internal/interfaces/httpserver/middlewares"
	v1 "modai/services/message-api/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
	config  *config.Config
	server  *http.Server
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	cfg *config.Config,
	logger zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine:  gin.New(),
		v1Route: v1Route,
		config:  cfg,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	server.engine.Use(middleware.MetricsMiddleware())

	// Service info at the root for humans poking around
	server.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"version": config.Version,
			"health":  "/healthz",
		})
	})

	// Root health checks for orchestrator probes
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.v1Route.RegisterRouter(server.engine)
	return &server
}

// Run starts the HTTP listener and blocks until the server stops.
func (httpServer *HTTPServer) Run() error {
	httpServer.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", httpServer.config.HTTPPort),
		Handler:           httpServer.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpServer.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (httpServer *HTTPServer) Shutdown(ctx context.Context) error {
	if httpServer.server == nil {
		return nil
	}
	return httpServer.server.Shutdown(ctx)
}
