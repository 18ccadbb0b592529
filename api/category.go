package api

import (
	"fmt"

	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler manages transaction categories. Global categories are
// shared read-only labels seeded on first boot and maintained by admins;
// every user can also keep a personal set.
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryRequest is the create/update payload.
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Groceries"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#ef4444"`
	Icon  string `json:"icon" binding:"omitempty,max=50" example:"shopping-cart"`
}

// List returns global categories plus the user's personal ones.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "filter by type (income or expense)"
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("is_global = ? OR user_id = ?", true, userID)
	if t := c.Query("type"); t != "" {
		if !models.ValidType(t) {
			BadRequest(c, "Type must be income or expense")
			return
		}
		query = query.Where("type = ?", t)
	}

	var categories []models.Category
	if err := query.Order("is_global DESC, name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load categories"))
		return
	}

	Success(c, categories)
}

// Create adds a category. Admins create global categories; everyone else
// creates personal ones.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "category"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid payload or duplicate name"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		Unauthorized(c, "User not found")
		return
	}

	category := models.Category{
		Name:  req.Name,
		Type:  req.Type,
		Color: req.Color,
		Icon:  req.Icon,
	}
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}

	// Duplicate check is scoped to what the caller will actually see.
	var count int64
	dup := database.DB.Model(&models.Category{}).
		Where("name = ? AND type = ?", req.Name, req.Type)
	if user.IsAdmin {
		category.IsGlobal = true
		dup = dup.Where("is_global = ?", true)
	} else {
		category.UserID = &user.ID
		dup = dup.Where("is_global = ? OR user_id = ?", true, userID)
	}
	if err := dup.Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to check category"))
		return
	}
	if count > 0 {
		BadRequest(c, "A category with this name already exists")
		return
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create category"))
		return
	}

	SuccessWithMessage(c, "Category created", category)
}

// loadEditable fetches a category the caller may modify: their own, or any
// global one when they are an admin.
func (h *CategoryHandler) loadEditable(c *gin.Context, userID uint) (*models.Category, bool) {
	id := c.Param("id")

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		NotFound(c, "Category not found")
		return nil, false
	}

	if category.UserID != nil && *category.UserID == userID {
		return &category, true
	}
	if category.IsGlobal {
		var user models.User
		if err := database.DB.First(&user, userID).Error; err == nil && user.IsAdmin {
			return &category, true
		}
	}

	Forbidden(c, "You cannot modify this category")
	return nil, false
}

// Update edits a category the caller owns (or a global one, for admins).
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryRequest true "category"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 403 {object} Response "not owned by caller"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	category, ok := h.loadEditable(c, userID)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"name": req.Name,
		"type": req.Type,
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}

	if err := database.DB.Model(category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update category"))
		return
	}

	SuccessWithMessage(c, "Category updated", category)
}

// Delete removes a category, refusing while transactions still reference it.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 400 {object} Response "still referenced by transactions"
// @Failure 403 {object} Response "not owned by caller"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	category, ok := h.loadEditable(c, userID)
	if !ok {
		return
	}

	var inUse int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&inUse).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to check category usage"))
		return
	}
	if inUse > 0 {
		BadRequest(c, fmt.Sprintf("Category is used by %d transaction(s), reassign them first", inUse))
		return
	}

	if err := database.DB.Delete(category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to delete category"))
		return
	}

	SuccessWithMessage(c, "Category deleted", nil)
}
