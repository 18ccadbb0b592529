package api

import (
	"math"
	"time"

	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"
	"serenicash/service"

	"github.com/gin-gonic/gin"
)

// BudgetHandler exposes the monthly budget status and setting.
type BudgetHandler struct{}

// NewBudgetHandler creates a budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// UpdateBudgetRequest sets the monthly budget. Zero disables monitoring.
type UpdateBudgetRequest struct {
	MonthlyBudget *float64 `json:"monthly_budget" binding:"required,gte=0" example:"1500"`
}

// BudgetStatus is the current-month budget picture.
type BudgetStatus struct {
	MonthlyBudget   float64    `json:"monthly_budget"`
	CurrentExpenses float64    `json:"current_expenses"`
	Remaining       float64    `json:"remaining"`
	Percentage      float64    `json:"percentage"`
	IsExceeded      bool       `json:"is_exceeded"`
	LastAlertSent   *time.Time `json:"last_alert_sent"`
}

// GetStatus returns the budget and this month's spend against it.
// @Summary Budget status
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=BudgetStatus} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budget [get]
func (h *BudgetHandler) GetStatus(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	currentExpenses, err := service.CurrentMonthExpenses(userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to compute expenses"))
		return
	}

	status := BudgetStatus{
		MonthlyBudget:   user.MonthlyBudget,
		CurrentExpenses: currentExpenses,
		Remaining:       user.MonthlyBudget - currentExpenses,
		IsExceeded:      user.MonthlyBudget > 0 && currentExpenses > user.MonthlyBudget,
		LastAlertSent:   user.BudgetAlertSent,
	}
	if user.MonthlyBudget > 0 {
		status.Percentage = math.Round(currentExpenses/user.MonthlyBudget*1000) / 10
	}

	Success(c, status)
}

// Update sets the monthly budget and re-arms the alert so the new limit is
// checked against this month's spend on the next expense.
// @Summary Set budget
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateBudgetRequest true "budget"
// @Success 200 {object} Response{data=BudgetStatus} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Router /api/v1/budget [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	// Resetting budget_alert_sent re-arms the once-per-month gate.
	updates := map[string]interface{}{
		"monthly_budget":    *req.MonthlyBudget,
		"budget_alert_sent": nil,
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update budget"))
		return
	}

	currentExpenses, err := service.CurrentMonthExpenses(userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to compute expenses"))
		return
	}

	status := BudgetStatus{
		MonthlyBudget:   *req.MonthlyBudget,
		CurrentExpenses: currentExpenses,
		Remaining:       *req.MonthlyBudget - currentExpenses,
		IsExceeded:      *req.MonthlyBudget > 0 && currentExpenses > *req.MonthlyBudget,
	}
	if *req.MonthlyBudget > 0 {
		status.Percentage = math.Round(currentExpenses / *req.MonthlyBudget * 1000) / 10
	}

	SuccessWithMessage(c, "Budget updated", status)
}
