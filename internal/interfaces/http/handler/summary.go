package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmovement "github.com/obralink/backend/internal/application/movement"
)

// SummaryHandler serves the aggregated dashboard views
type SummaryHandler struct {
	BaseHandler
	service *appmovement.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(service *appmovement.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// RegisterRoutes registers summary routes
func (h *SummaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	summaries := rg.Group("/summaries")
	{
		summaries.GET("/wallet-balances", h.WalletBalances)
		summaries.GET("/financial", h.Financial)
	}
}

func parseProjectID(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("project_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// WalletBalances returns per-wallet balances split by currency
func (h *SummaryHandler) WalletBalances(c *gin.Context) {
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

	balances, err := h.service.WalletBalances(c.Request.Context(), organizationID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// Financial returns income, expense and net per currency
func (h *SummaryHandler) Financial(c *gin.Context) {
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
	from, err := parseDateQuery(c, "from")
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.service.FinancialSummary(c.Request.Context(), organizationID, projectID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
