package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/shared/server/respond"
)

// Handler serves the verification-log read endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches verification-log routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/verification-logs/document/:id", h.byDocument)
	rg.GET("/verification-logs/candidate/:id", h.byCandidate)
	rg.GET("/verification-logs/request/:id", h.byRequest)
	rg.GET("/verification-logs/timeline", h.timeline)
}

func (h *Handler) byDocument(c *gin.Context) {
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	evs, stats, err := h.Svc.ListByDocument(c.Request.Context(), documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch verification logs", nil)
		return
	}

	respond.OK(c, gin.H{
		"events": evs,
		"stats":  stats,
	})
}

func (h *Handler) byCandidate(c *gin.Context) {
	candidateID := c.Param("id")
	if candidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id is required", nil)
		return
	}

	evs, stats, err := h.Svc.ListByCandidate(c.Request.Context(), candidateID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch verification logs", nil)
		return
	}

	respond.OK(c, gin.H{
		"events": evs,
		"stats":  stats,
	})
}

func (h *Handler) byRequest(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request id is required", nil)
		return
	}

	evs, stats, err := h.Svc.ListByRequest(c.Request.Context(), requestID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch verification logs", nil)
		return
	}

	respond.OK(c, gin.H{
		"events": evs,
		"stats":  stats,
	})
}

func (h *Handler) timeline(c *gin.Context) {
	candidateID := c.Query("candidateId")
	documentID := c.Query("documentId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	entries, err := h.Svc.Timeline(c.Request.Context(), candidateID, documentID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch timeline", nil)
		return
	}

	respond.OK(c, gin.H{
		"timeline": entries,
		"count":    len(entries),
	})
}
