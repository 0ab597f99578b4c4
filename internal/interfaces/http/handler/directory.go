package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/obralink/backend/internal/application/catalog"
)

// DirectoryHandler serves the reference data the movement forms select from
type DirectoryHandler struct {
	BaseHandler
	service *appcatalog.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service *appcatalog.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// RegisterRoutes registers directory routes
func (h *DirectoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	directory := rg.Group("/directory")
	{
		directory.GET("", h.Directory)
		directory.GET("/relation-targets", h.RelationTargets)
		directory.GET("/member-for-user", h.MemberForUser)
	}
}

// Directory returns the currencies, wallets, members and contacts of the organization
func (h *DirectoryHandler) Directory(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}

	resp, err := h.service.Directory(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MemberForUser resolves a user account to its organization member row.
// Movement rows store the member ID, never the user ID.
func (h *DirectoryHandler) MemberForUser(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	member, err := h.service.MemberForUser(c.Request.Context(), userID, organizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// RelationTargets returns the selectable relation targets of one kind
func (h *DirectoryHandler) RelationTargets(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.Unauthorized(c, "Organization context required")
		return
	}
	projectID, err := parseProjectID(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	options, err := h.service.RelationTargets(c.Request.Context(), organizationID, c.Query("kind"), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}
