package api

import (
	"serenicash/config"
	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"test@example.com"`
}

// LoginRequest accepts a username or an email address.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user,omitempty"`
}

func (h *AuthHandler) issueTokens(user *models.User) (*TokenResponse, error) {
	access, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.AccessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := middleware.GenerateRefreshToken(user.ID, user.Username, h.cfg.JWT.RefreshExpire)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Register creates a new account.
// @Summary Register
// @Description Create a new user account and return a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 200 {object} Response{data=TokenResponse} "registered"
// @Failure 400 {object} Response "invalid payload or username taken"
// @Failure 500 {object} Response "server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "Username already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create user"))
		return
	}

	tokens, err := h.issueTokens(&user)
	if err != nil {
		InternalError(c, "Failed to generate tokens")
		return
	}

	SuccessWithMessage(c, "Registered successfully", tokens)
}

// Login authenticates a user.
// @Summary Login
// @Description Log in with a username or email and get a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=TokenResponse} "logged in"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "wrong credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	tokens, err := h.issueTokens(&user)
	if err != nil {
		InternalError(c, "Failed to generate tokens")
		return
	}

	Success(c, tokens)
}

// Refresh exchanges a valid refresh token for a fresh pair.
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new access/refresh pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "refresh token"
// @Success 200 {object} Response{data=TokenResponse} "refreshed"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "invalid or expired refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != middleware.TokenTypeRefresh {
		Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	var user models.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	tokens, err := h.issueTokens(&user)
	if err != nil {
		InternalError(c, "Failed to generate tokens")
		return
	}

	Success(c, tokens)
}

// GetProfile returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest is the change-password payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// ChangePassword updates the authenticated user's password.
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "passwords"
// @Success 200 {object} Response "changed"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "wrong old password"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "Old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to update password"))
		return
	}

	SuccessWithMessage(c, "Password changed successfully", nil)
}
