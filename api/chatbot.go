package api

import (
	"fmt"
	"log"
	"strings"
	"time"

	"serenicash/config"
	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"
	"serenicash/service"

	"github.com/gin-gonic/gin"
)

// ChatbotHandler answers free-form questions about the user's finances and
// produces the next-month forecast, both backed by the Gemini client.
type ChatbotHandler struct {
	ai *service.GeminiClient
}

// NewChatbotHandler creates a chatbot handler.
func NewChatbotHandler(cfg *config.Config) *ChatbotHandler {
	return &ChatbotHandler{ai: service.NewGeminiClient(&cfg.AI)}
}

// ChatRequest is one user message.
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000" example:"How much did I spend on food this month?"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// buildChatPrompt renders the user's recent financial context plus their
// question. Only the last 20 transactions go into the prompt to keep it
// bounded.
func buildChatPrompt(user *models.User, txs []models.Transaction, totalIncome, totalExpenses float64, message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful personal finance assistant for the SereniCash app. ")
	b.WriteString("Answer the user's question based on their financial data below. ")
	b.WriteString("Be concise, friendly and practical. Use plain text, no markdown.\n\n")

	fmt.Fprintf(&b, "User: %s\n", user.Username)
	if user.MonthlyBudget > 0 {
		fmt.Fprintf(&b, "Monthly budget: $%.2f\n", user.MonthlyBudget)
	}
	fmt.Fprintf(&b, "Total income (all time): $%.2f\n", totalIncome)
	fmt.Fprintf(&b, "Total expenses (all time): $%.2f\n", totalExpenses)
	fmt.Fprintf(&b, "Balance: $%.2f\n\n", totalIncome-totalExpenses)

	b.WriteString("Recent transactions (newest first):\n")
	for _, tx := range txs {
		name := service.UncategorizedLabel
		if tx.Category != nil {
			name = tx.Category.Name
		}
		fmt.Fprintf(&b, "- %s | %s | $%.2f | %s | %s\n",
			tx.Date.Format("2006-01-02"), tx.Type, tx.Amount, name, tx.Description)
	}

	fmt.Fprintf(&b, "\nUser question: %s\n", message)
	return b.String()
}

// Chat answers a question about the caller's finances.
// @Summary Financial assistant chat
// @Tags chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "message"
// @Success 200 {object} Response{data=ChatResponse} "ok"
// @Failure 400 {object} Response "invalid payload"
// @Failure 503 {object} Response "AI service not configured or unavailable"
// @Router /api/v1/chatbot/chat [post]
func (h *ChatbotHandler) Chat(c *gin.Context) {
	if !h.ai.Configured() {
		ServiceUnavailable(c, "AI service is not configured")
		return
	}

	userID := middleware.GetCurrentUserID(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}

	var txs []models.Transaction
	if err := database.DB.
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(20).
		Find(&txs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load transactions"))
		return
	}

	sumByType := func(txType string) float64 {
		var total float64
		database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ?", userID, txType).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total)
		return total
	}
	totalIncome := sumByType(models.TypeIncome)
	totalExpenses := sumByType(models.TypeExpense)

	prompt := buildChatPrompt(&user, txs, totalIncome, totalExpenses, req.Message)

	reply, err := h.ai.Generate(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("chatbot: generate reply for user %d: %v", userID, err)
		ServiceUnavailable(c, "AI service is currently unavailable")
		return
	}

	Success(c, ChatResponse{Reply: strings.TrimSpace(reply)})
}

// GetForecast predicts next month from the trailing three months. The model
// only supplies the headline numbers and narrative; balance and the category
// breakdown are computed locally, and a parse failure degrades to the
// deterministic average-based forecast.
// @Summary Next-month forecast
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.Forecast} "ok"
// @Failure 503 {object} Response "AI service not configured or unavailable"
// @Router /api/v1/chatbot/forecast [get]
func (h *ChatbotHandler) GetForecast(c *gin.Context) {
	if !h.ai.Configured() {
		ServiceUnavailable(c, "AI service is not configured")
		return
	}

	userID := middleware.GetCurrentUserID(c)

	input, err := service.LoadForecastInput(userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load transaction history"))
		return
	}
	if input == nil {
		Success(c, service.EmptyForecast())
		return
	}

	raw, err := h.ai.Generate(c.Request.Context(), service.BuildForecastPrompt(input))
	if err != nil {
		log.Printf("forecast: generate for user %d: %v", userID, err)
		ServiceUnavailable(c, "AI service is currently unavailable")
		return
	}

	forecast, err := service.ParseForecastResponse(raw)
	if err != nil {
		log.Printf("forecast: parse reply for user %d: %v", userID, err)
		forecast = service.FallbackForecast(input)
	}
	forecast.Finalize(input)

	Success(c, forecast)
}
