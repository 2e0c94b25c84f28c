package http

import (
	stdhttp "net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse-server/internal/auth"
	"github.com/pulsechat/pulse-server/internal/config"
	"github.com/pulsechat/pulse-server/internal/core"
)

// NewServer builds the HTTP server: login and snapshot endpoints, the
// websocket bridge, and static assets.
func NewServer(hub *core.Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	api := NewAPIHandlers(hub, authService, logger)
	router.POST("/api/login", api.Login)
	router.GET("/api/messages", api.Messages)
	router.GET("/api/users", api.Users)
	router.GET("/health", healthHandler)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, logger)))

	if cfg.StaticDir != "" {
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
		router.Static("/static", cfg.StaticDir)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
