package api

import (
	"time"

	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler is the admin-only user management surface.
type UserHandler struct{}

// NewUserHandler creates a user handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// UserWithStats decorates a user row with its transaction count.
type UserWithStats struct {
	models.User
	TransactionCount int64 `json:"transaction_count"`
}

// UpdateRoleRequest toggles a user's admin flag.
type UpdateRoleRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// List returns all users with their transaction counts, paginated.
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} Response{data=PageResponse} "ok"
// @Failure 403 {object} Response "admin access required"
// @Router /api/v1/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var req struct {
		Page     int `form:"page,default=1" binding:"min=1"`
		PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid pagination parameters"))
		return
	}

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to count users"))
		return
	}

	var users []UserWithStats
	if err := database.DB.Model(&models.User{}).
		Select("users.*, COUNT(transactions.id) AS transaction_count").
		Joins("LEFT JOIN transactions ON transactions.user_id = users.id AND transactions.deleted_at IS NULL").
		Group("users.id").
		Order("users.id ASC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Scan(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load users"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     users,
	})
}

// Get returns one user with transaction totals.
// @Summary Get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	var txCount int64
	database.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txCount)

	Success(c, gin.H{
		"user":              user,
		"transaction_count": txCount,
	})
}

// UpdateRole grants or revokes admin. Admins cannot change their own role, so
// the system always keeps at least the caller as admin.
// @Summary Update user role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Param request body UpdateRoleRequest true "role"
// @Success 200 {object} Response{data=models.User} "updated"
// @Failure 400 {object} Response "cannot change own role"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/admin/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	current := middleware.GetContextUser(c)

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	if current != nil && current.ID == user.ID {
		BadRequest(c, "You cannot change your own role")
		return
	}

	if err := database.DB.Model(&user).Update("is_admin", *req.IsAdmin).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update role"))
		return
	}

	SuccessWithMessage(c, "Role updated", user)
}

// Delete removes a user and their data. Self-deletion is refused.
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} Response "deleted"
// @Failure 400 {object} Response "cannot delete yourself"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	current := middleware.GetContextUser(c)

	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	if current != nil && current.ID == user.ID {
		BadRequest(c, "You cannot delete your own account")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		// Personal categories only; global ones stay.
		if err := tx.Where("user_id = ? AND is_global = ?", user.ID, false).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete user"))
		return
	}

	SuccessWithMessage(c, "User deleted", nil)
}

// GetStats returns platform-level counters for the admin dashboard.
// @Summary Platform stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "ok"
// @Failure 403 {object} Response "admin access required"
// @Router /api/v1/admin/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	var userCount, txCount, categoryCount, newUsers int64

	database.DB.Model(&models.User{}).Count(&userCount)
	database.DB.Model(&models.Transaction{}).Count(&txCount)
	database.DB.Model(&models.Category{}).Count(&categoryCount)
	database.DB.Model(&models.User{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).
		Count(&newUsers)

	Success(c, gin.H{
		"total_users":        userCount,
		"total_transactions": txCount,
		"total_categories":   categoryCount,
		"new_users_30d":      newUsers,
	})
}
