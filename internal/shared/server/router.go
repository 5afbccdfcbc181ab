package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/contextdocs"
	"notescan-backend/internal/documents"
	"notescan-backend/internal/ingest"
	"notescan-backend/internal/notesets"
	"notescan-backend/internal/shared/config"
	"notescan-backend/internal/shared/metrics"
	"notescan-backend/internal/shared/server/middleware"
	"notescan-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	NoteSetsHandler  *notesets.Handler
	ContextHandler   *contextdocs.Handler
	IngestHandler    *ingest.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 20, Burst: 40},
				"UPLOAD":  {Rate: 2, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if strings.HasPrefix(c.FullPath(), "/api/upload") {
					return "UPLOAD"
				}
				return "DEFAULT"
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.IngestHandler != nil {
		deps.IngestHandler.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.NoteSetsHandler != nil {
		deps.NoteSetsHandler.RegisterRoutes(api)
	}
	if deps.ContextHandler != nil {
		deps.ContextHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
