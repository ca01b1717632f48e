package verification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/parsing"
	"intake-backend/internal/shared/server/middleware"
	"intake-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the verification service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document verification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/documents", h.createDocument)
	rg.GET("/candidates/:id/documents", h.listDocuments)
	rg.GET("/documents/:id", h.getDocument)
	rg.POST("/documents/:id/extraction", h.applyExtraction)
	rg.POST("/documents/:id/review", h.review)
}

type createDocumentRequest struct {
	FileName string `json:"fileName"`
	Category string `json:"category"`
}

func (h *Handler) createDocument(c *gin.Context) {
	candidateID := c.Param("id")
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.CreateDocument(c.Request.Context(), candidateID, req.FileName, req.Category, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		case errors.Is(err, ErrCandidateNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create document", nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	candidateID := c.Param("id")

	docs, err := h.Svc.ListByCandidate(c.Request.Context(), candidateID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCandidateNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

func (h *Handler) getDocument(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}

	respond.OK(c, documentView(doc))
}

type extractionRequest struct {
	Succeeded           bool              `json:"succeeded"`
	Confidence          float64           `json:"confidence"`
	Fields              map[string]string `json:"fields"`
	FailureStage        string            `json:"failureStage"`
	ErrorMessage        string            `json:"errorMessage"`
	ScanDurationSeconds *float64          `json:"scanDurationSeconds"`
}

func (h *Handler) applyExtraction(c *gin.Context) {
	documentID := c.Param("id")
	var req extractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res := parsing.Result{
		Succeeded:    req.Succeeded,
		Confidence:   req.Confidence,
		Fields:       req.Fields,
		FailureStage: req.FailureStage,
		ErrorMessage: req.ErrorMessage,
	}
	if err := parsing.ValidateResult(res); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	doc, err := h.Svc.HandleExtraction(c.Request.Context(), documentID, res, req.ScanDurationSeconds, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			respond.Error(c, http.StatusConflict, "invalid_transition", "document is not awaiting extraction", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply extraction", nil)
		}
		return
	}

	respond.OK(c, documentView(doc))
}

type reviewRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (h *Handler) review(c *gin.Context) {
	documentID := c.Param("id")
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "decision must be approve or reject", nil)
		return
	}

	doc, err := h.Svc.Review(c.Request.Context(), documentID, req.Decision == "approve", req.Notes, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			respond.Error(c, http.StatusConflict, "invalid_transition", "document is not reviewable in its current status", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply review", nil)
		}
		return
	}

	respond.OK(c, documentView(doc))
}

// documentView adds the human-readable reason message to a document payload.
func documentView(doc Document) gin.H {
	return gin.H{
		"document":      doc,
		"reasonMessage": ReasonMessage(doc.ReasonCode),
	}
}
