package api

import (
	"strconv"

	"serenicash/middleware"
	"serenicash/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the dashboard chart data.
type AnalyticsHandler struct{}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

// GetMonthly returns the month-over-month trend and the expense pie for the
// trailing window.
// @Summary Monthly analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "trailing window in months" default(6)
// @Success 200 {object} Response "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions/analytics [get]
func (h *AnalyticsHandler) GetMonthly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			BadRequest(c, "months must be between 1 and 24")
			return
		}
		months = parsed
	}

	monthly, categories, err := service.MonthlyAnalytics(userID, months)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load analytics"))
		return
	}

	Success(c, gin.H{
		"monthly_data":  monthly,
		"category_data": categories,
	})
}
