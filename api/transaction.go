package api

import (
	"strconv"
	"time"

	"serenicash/config"
	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"
	"serenicash/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transaction CRUD and summaries. Expense writes
// trigger the budget monitor in line; its result is attached to the response.
type TransactionHandler struct {
	monitor *service.BudgetMonitor
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(cfg *config.Config) *TransactionHandler {
	return &TransactionHandler{monitor: service.NewBudgetMonitor(cfg)}
}

// CreateTransactionRequest is the creation payload. Date accepts
// "2006-01-02 15:04:05" or "2006-01-02"; empty means now.
type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Type        string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID  *uint   `json:"category_id"`
	Description string  `json:"description" binding:"omitempty,max=255" example:"Lunch"`
	Date        string  `json:"date" example:"2024-01-15 12:30:00"`
}

// UpdateTransactionRequest is the partial update payload.
type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Type        *string  `json:"type" binding:"omitempty,oneof=income expense"`
	CategoryID  *uint    `json:"category_id"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Date        *string  `json:"date"`
}

// TransactionListRequest filters the transaction list.
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	Type       string `form:"type" example:"expense"`
	CategoryID uint   `form:"category_id"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
}

func parseTransactionDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// visibleCategory loads a category the user may use: global or their own.
func visibleCategory(userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	err := database.DB.
		Where("id = ? AND (is_global = ? OR user_id = ?)", categoryID, true, userID).
		First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create adds a transaction.
// @Summary Create transaction
// @Description Create an income or expense transaction. When an expense write pushes the month's spending over the configured budget, the response carries an alert object.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction"
// @Success 200 {object} Response "created; data contains transaction and optionally alert"
// @Failure 400 {object} Response "invalid payload or category"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if req.CategoryID != nil {
		cat, err := visibleCategory(userID, *req.CategoryID)
		if err != nil {
			BadRequest(c, "Invalid category")
			return
		}
		if cat.Type != req.Type {
			BadRequest(c, "Category type ("+cat.Type+") must match transaction type ("+req.Type+")")
			return
		}
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseTransactionDate(req.Date)
		if err != nil {
			BadRequest(c, "Invalid date, expected format: 2006-01-02 15:04:05")
			return
		}
		date = parsed
	}

	tx := models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        date,
	}
	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create transaction"))
		return
	}
	database.DB.Preload("Category").First(&tx, tx.ID)

	data := gin.H{"transaction": tx}
	// The monitor swallows its own failures; a transaction write never
	// fails because of the budget check.
	if tx.Type == models.TypeExpense {
		if alert := h.monitor.CheckAndAlert(userID); alert != nil {
			data["alert"] = alert
		}
	}

	SuccessWithMessage(c, "Transaction created successfully", data)
}

// List returns the user's transactions with filters and pagination.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param type query string false "income or expense"
// @Param category_id query int false "category filter"
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			// Include the whole end day.
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	var txs []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Category").Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&txs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     txs,
	})
}

// Get returns one transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	Success(c, tx)
}

// Update partially updates a transaction. When the final type is expense the
// budget monitor runs again, so raising an amount can fire an alert.
// @Summary Update transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Param request body UpdateTransactionRequest true "fields to update"
// @Success 200 {object} Response "updated; data contains transaction and optionally alert"
// @Failure 400 {object} Response "invalid payload or category"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	finalType := tx.Type
	if req.Type != nil {
		finalType = *req.Type
	}
	finalCategoryID := tx.CategoryID
	if req.CategoryID != nil {
		finalCategoryID = req.CategoryID
	}

	// The (possibly unchanged) category must match the final type.
	if finalCategoryID != nil {
		cat, err := visibleCategory(userID, *finalCategoryID)
		if err != nil {
			BadRequest(c, "Invalid category")
			return
		}
		if cat.Type != finalType {
			BadRequest(c, "Category type ("+cat.Type+") must match transaction type ("+finalType+")")
			return
		}
	}

	updates := make(map[string]interface{})
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		parsed, err := parseTransactionDate(*req.Date)
		if err != nil {
			BadRequest(c, "Invalid date, expected format: 2006-01-02 15:04:05")
			return
		}
		updates["date"] = parsed
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Failed to update transaction"))
			return
		}
	}
	database.DB.Preload("Category").First(&tx, tx.ID)

	data := gin.H{"transaction": tx}
	if finalType == models.TypeExpense {
		if alert := h.monitor.CheckAndAlert(userID); alert != nil {
			data["alert"] = alert
		}
	}

	SuccessWithMessage(c, "Transaction updated successfully", data)
}

// Delete removes a transaction.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "Transaction not found")
		return
	}

	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete transaction"))
		return
	}

	SuccessWithMessage(c, "Transaction deleted successfully", nil)
}

// SummaryResponse carries overall totals for a period.
type SummaryResponse struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
}

// GetSummary returns income/expense totals and the balance.
// @Summary Transaction summary
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} Response{data=SummaryResponse} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	sumByType := func(txType string) float64 {
		q := database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ?", userID, txType)
		if startStr != "" {
			if t, err := time.ParseInLocation("2006-01-02", startStr, time.Local); err == nil {
				q = q.Where("date >= ?", t)
			}
		}
		if endStr != "" {
			if t, err := time.ParseInLocation("2006-01-02", endStr, time.Local); err == nil {
				t = t.Add(24*time.Hour - time.Second)
				q = q.Where("date <= ?", t)
			}
		}
		var total float64
		q.Select("COALESCE(SUM(amount), 0)").Scan(&total)
		return total
	}

	totalIncome := sumByType(models.TypeIncome)
	totalExpenses := sumByType(models.TypeExpense)

	Success(c, SummaryResponse{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		Balance:       totalIncome - totalExpenses,
	})
}
