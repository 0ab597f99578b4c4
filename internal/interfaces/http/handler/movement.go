package handler

import (
	"github.com/gin-gonic/gin"

	appmovement "github.com/obralink/backend/internal/application/movement"
)

// MovementHandler serves the movement recording, listing and edit endpoints
type MovementHandler struct {
	BaseHandler
	service       *appmovement.MovementService
	pairedService *appmovement.PairedService
	editService   *appmovement.EditService
	formService   *appmovement.FormService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(
	service *appmovement.MovementService,
	pairedService *appmovement.PairedService,
	editService *appmovement.EditService,
	formService *appmovement.FormService,
) *MovementHandler {
	return &MovementHandler{
		service:       service,
		pairedService: pairedService,
		editService:   editService,
		formService:   formService,
	}
}

// RegisterRoutes registers movement routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/movements")
	{
		movements.POST("", h.Create)
		movements.GET("", h.List)
		movements.POST("/classify", h.Classify)
		movements.POST("/groups", h.CreateGroup)
		movements.GET("/groups/:groupId", h.GetGroup)
		movements.PUT("/groups/:groupId", h.UpdateGroup)
		movements.GET("/:id", h.Get)
		movements.PUT("/:id", h.Update)
		movements.DELETE("/:id", h.Delete)
		movements.GET("/:id/edit-context", h.EditContext)
	}
}

// Create records a single-entry movement
func (h *MovementHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Member context required")
		return
	}

	var input appmovement.MovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.CreatedBy = memberID

	resp, err := h.service.Create(c.Request.Context(), organizationID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one movement
func (h *MovementHandler) Get(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), organizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of movements
func (h *MovementHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}

	var filter appmovement.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.service.List(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update overwrites a single-entry movement
func (h *MovementHandler) Update(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Member context required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var input appmovement.MovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.CreatedBy = memberID

	resp, err := h.service.Update(c.Request.Context(), organizationID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a movement. Deleting one half of a pair removes the group.
func (h *MovementHandler) Delete(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), organizationID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EditContext returns the reconstructed form draft for one movement
func (h *MovementHandler) EditContext(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	resp, err := h.editService.EditContext(c.Request.Context(), organizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Classify resolves a classification path to its form variant
func (h *MovementHandler) Classify(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}

	var req appmovement.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.formService.Classify(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateGroup records a conversion or transfer pair
func (h *MovementHandler) CreateGroup(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Member context required")
		return
	}

	var input appmovement.PairedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.CreatedBy = memberID

	resp, err := h.pairedService.Create(c.Request.Context(), organizationID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetGroup returns a conversion or transfer pair
func (h *MovementHandler) GetGroup(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	groupID, err := parseUUIDParam(c, "groupId")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	resp, err := h.pairedService.GetGroup(c.Request.Context(), organizationID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateGroup overwrites both halves of a conversion or transfer pair
func (h *MovementHandler) UpdateGroup(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Member context required")
		return
	}
	groupID, err := parseUUIDParam(c, "groupId")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var input appmovement.PairedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.CreatedBy = memberID

	resp, err := h.pairedService.Update(c.Request.Context(), organizationID, groupID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
