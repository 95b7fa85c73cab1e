package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Config holds the monitor HTTP server's configuration, mirroring the
// teacher's rest.Config shape (Address, Debug) with the same
// gin.ReleaseMode-unless-Debug convention.
type Config struct {
	Address string
	Debug   bool
}

// Server exposes the run's health and progress over HTTP, and live
// events over WebSocket. Entirely optional: internal/cmd/sage only
// starts one when --monitor-addr is set.
type Server struct {
	router   *gin.Engine
	progress *Progress
	hub      *Hub
}

// NewServer builds the gin router with /healthz, /progress, and /ws.
func NewServer(cfg Config, progress *Progress, hub *Hub) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{router: gin.New(), progress: progress, hub: hub}
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthCheck)
	s.router.GET("/progress", s.getProgress)
	s.router.GET("/ws", func(c *gin.Context) {
		s.hub.HandleWebSocket(c.Writer, c.Request)
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) getProgress(c *gin.Context) {
	c.JSON(http.StatusOK, s.progress.Snapshot())
}

// Handler returns the HTTP handler, for use with a caller-managed
// http.Server (graceful shutdown in cmd/sage).
func (s *Server) Handler() http.Handler { return s.router }

// Run starts the HTTP server, blocking until it exits.
func (s *Server) Run(addr string) error { return s.router.Run(addr) }

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
