package candidates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intake-backend/internal/match"
	"intake-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the candidates service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates/:id", h.get)
	rg.POST("/candidates/check-duplicates", h.checkDuplicates)
}

type checkDuplicatesRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passportNumber"`
}

func (h *Handler) checkDuplicates(c *gin.Context) {
	var req checkDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	matches, err := h.Svc.CheckDuplicates(c.Request.Context(), match.Input{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check duplicates", nil)
		return
	}

	respond.OK(c, gin.H{
		"matches":      matches,
		"hasDuplicate": len(matches) > 0,
	})
}

type createCandidateRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CNIC           string `json:"cnic"`
	PassportNumber string `json:"passportNumber"`
	ReferenceText  string `json:"referenceText"`
}

func (h *Handler) create(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cand, err := h.Svc.Create(c.Request.Context(), Candidate{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CNIC:           req.CNIC,
		PassportNumber: req.PassportNumber,
		ReferenceText:  req.ReferenceText,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "candidate name is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create candidate", nil)
		}
		return
	}

	c.Set("candidateId", cand.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"candidateId": cand.ID,
		"name":        cand.Name,
	})
}

func (h *Handler) get(c *gin.Context) {
	candidateID := c.Param("id")
	if candidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id is required", nil)
		return
	}

	cand, err := h.Svc.Get(c.Request.Context(), candidateID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch candidate", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"candidateId":    cand.ID,
		"name":           cand.Name,
		"email":          cand.Email,
		"phone":          cand.Phone,
		"cnic":           cand.CNIC,
		"passportNumber": cand.PassportNumber,
		"createdAt":      cand.CreatedAt,
	})
}
