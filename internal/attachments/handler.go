package attachments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the attachments service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches attachment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attachments", h.upload)
	rg.GET("/attachments/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	messageID := c.PostForm("messageId")
	if messageID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "messageId is required", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer f.Close()

	att, err := h.Svc.Upload(c.Request.Context(), messageID, fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid attachment input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store attachment", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"attachmentId": att.ID,
		"fileName":     att.FileName,
		"mimeType":     att.MimeType,
		"sizeBytes":    att.SizeBytes,
	})
}

func (h *Handler) get(c *gin.Context) {
	attachmentID := c.Param("id")
	if attachmentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "attachment id is required", nil)
		return
	}

	att, err := h.Svc.Get(c.Request.Context(), attachmentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch attachment", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"attachmentId": att.ID,
		"messageId":    att.MessageID,
		"fileName":     att.FileName,
		"mimeType":     att.MimeType,
		"sizeBytes":    att.SizeBytes,
		"createdAt":    att.CreatedAt,
	})
}
