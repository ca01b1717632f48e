package parsing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the parsing service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches parsing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attachments/:id/parse", h.submit)
	rg.GET("/parsing-jobs/:id", h.status)
}

func (h *Handler) submit(c *gin.Context) {
	attachmentID := c.Param("id")
	if attachmentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "attachment id is required", nil)
		return
	}

	job, err := h.Svc.Submit(c.Request.Context(), attachmentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttachmentNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit parsing job", nil)
		}
		return
	}

	c.Set("jobId", job.ID)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"jobId":  job.ID,
		"status": job.Status,
	})
}

func (h *Handler) status(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
		return
	}

	job, err := h.Svc.Status(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "parsing job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch parsing job", nil)
		}
		return
	}

	respond.OK(c, job)
}
