package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/obralink/backend/internal/application/catalog"
)

// ConceptHandler serves the read-only classification taxonomy
type ConceptHandler struct {
	BaseHandler
	service *appcatalog.ConceptService
}

// NewConceptHandler creates a new ConceptHandler
func NewConceptHandler(service *appcatalog.ConceptService) *ConceptHandler {
	return &ConceptHandler{service: service}
}

// RegisterRoutes registers concept routes
func (h *ConceptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	concepts := rg.Group("/concepts")
	{
		concepts.GET("", h.Tree)
		concepts.GET("/:id", h.Get)
	}
}

// Tree returns the organization's concept tree
func (h *ConceptHandler) Tree(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}

	tree, err := h.service.Tree(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Get returns one concept
func (h *ConceptHandler) Get(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid concept ID")
		return
	}

	concept, err := h.service.Get(c.Request.Context(), organizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, concept)
}
