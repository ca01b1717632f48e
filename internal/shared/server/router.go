package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/attachments"
	"intake-backend/internal/candidates"
	"intake-backend/internal/parsing"
	"intake-backend/internal/shared/server/middleware"
	"intake-backend/internal/verification"
	"intake-backend/internal/verification/events"
)

// Handlers collects the route registrars for every domain package.
type Handlers struct {
	Attachments  *attachments.Handler
	Candidates   *candidates.Handler
	Parsing      *parsing.Handler
	Verification *verification.Handler
	Events       *events.Handler
}

// NewRouter builds the gin engine with the standard middleware chain and all
// API routes mounted under /api/v1.
func NewRouter(h Handlers, corsAllowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(corsAllowOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	h.Attachments.RegisterRoutes(api)
	h.Candidates.RegisterRoutes(api)
	h.Parsing.RegisterRoutes(api)
	h.Verification.RegisterRoutes(api)
	h.Events.RegisterRoutes(api)

	return r
}
