package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	dashboarddomain "github.com/silkysystems/credit-engine/internal/dashboard/domain"
)

type creditDashboardQuery struct {
	ViewerType       string `form:"viewer_type,default=silky_internal" binding:"omitempty,oneof=silky_internal bank_partner merchant"`
	UsageMode        string `form:"usage_mode" binding:"omitempty,oneof=internal_analytics merchant_portal bank_partner_portal"`
	SubscriptionTier string `form:"subscription_tier" binding:"omitempty,oneof=free standard pro enterprise"`
	LenderID         string `form:"lender_id"`
}

// GetCreditDashboard serves GET /api/credit-dashboard/:customer_id. The first
// call for a view tuple invokes the model and persists a snapshot; later
// calls for the same tuple are served from that snapshot.
func (s *Server) GetCreditDashboard(c *gin.Context) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(c.Param("customer_id")))
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_id", "customer_id must be a numeric id"))
		return
	}

	var query creditDashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var lenderID *string
	if trimmed := strings.TrimSpace(query.LenderID); trimmed != "" {
		lenderID = &trimmed
	}

	resp, err := s.dashboardSvc.Generate(c.Request.Context(), dashboarddomain.GenerateRequest{
		CustomerID:       customerID,
		ViewerType:       query.ViewerType,
		UsageMode:        query.UsageMode,
		SubscriptionTier: query.SubscriptionTier,
		LenderID:         lenderID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListCustomers serves GET /api/customers: every merchant with its newest
// snapshot summary when one exists.
func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.ListWithLatestCredit(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetCustomerByID serves GET /api/customers/:id.
func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
