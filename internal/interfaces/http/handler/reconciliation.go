package handler

import (
	"github.com/gin-gonic/gin"

	appmovement "github.com/obralink/backend/internal/application/movement"
)

// ReconciliationHandler exposes the orphan group sweep for operators
type ReconciliationHandler struct {
	BaseHandler
	service *appmovement.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *appmovement.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// RegisterRoutes registers reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/reconciliation")
	{
		admin.POST("/sweep", h.Sweep)
	}
}

// Sweep scans the organization for orphaned conversion and transfer rows.
// With repair=true the orphan rows are deleted.
func (h *ReconciliationHandler) Sweep(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	repair := c.Query("repair") == "true"

	result, err := h.service.Sweep(c.Request.Context(), organizationID, repair)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
