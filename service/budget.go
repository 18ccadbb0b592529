package service

import (
	"log"
	"time"

	"serenicash/config"
	"serenicash/database"
	"serenicash/models"
)

// AlertResult is returned when a transaction write pushed the user over their
// monthly budget. It is embedded in the transaction response so the frontend
// can surface the warning immediately.
type AlertResult struct {
	Kind            string  `json:"kind"`
	Message         string  `json:"message"`
	MonthlyBudget   float64 `json:"monthly_budget"`
	CurrentExpenses float64 `json:"current_expenses"`
	OverspentBy     float64 `json:"overspent_by"`
}

// BudgetMonitor checks monthly spend against the user's budget after expense
// writes and fires at most one alert per calendar month.
type BudgetMonitor struct {
	mail *EmailService
}

// NewBudgetMonitor creates a budget monitor using the configured mail sender.
func NewBudgetMonitor(cfg *config.Config) *BudgetMonitor {
	return &BudgetMonitor{mail: NewEmailService(&cfg.Email)}
}

// StartOfMonth returns the first instant of now's calendar month in now's
// location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ShouldAlert reports whether a new alert may fire: false only when an alert
// was already sent within the current calendar month. A timestamp from a prior
// month counts as "not sent"; the gate resets implicitly at month rollover.
func ShouldAlert(now time.Time, lastSent *time.Time) bool {
	if lastSent == nil {
		return true
	}
	return lastSent.Before(StartOfMonth(now))
}

// CurrentMonthExpenses sums the user's expense transactions since the start
// of the current calendar month.
func CurrentMonthExpenses(userID uint, now time.Time) (float64, error) {
	var total float64
	err := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ?", userID, models.TypeExpense, StartOfMonth(now)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// CheckAndAlert runs the budget check for a user after an expense write and
// returns the alert payload when one fires, nil otherwise. Every internal
// failure is logged and swallowed: the enclosing transaction write must never
// fail because of the monitor. Note that the read-then-write of
// budget_alert_sent is not serialized, so concurrent expense writes for the
// same user can both fire; the once-per-month gate is best effort.
func (m *BudgetMonitor) CheckAndAlert(userID uint) *AlertResult {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		log.Printf("budget check: load user %d: %v", userID, err)
		return nil
	}

	// Budget unset or zero disables the feature.
	if user.MonthlyBudget <= 0 {
		return nil
	}

	now := time.Now()
	if !ShouldAlert(now, user.BudgetAlertSent) {
		return nil
	}

	currentExpenses, err := CurrentMonthExpenses(userID, now)
	if err != nil {
		log.Printf("budget check: sum expenses for user %d: %v", userID, err)
		return nil
	}

	// Strict comparison: spending exactly the budget is not exceeding it.
	if currentExpenses <= user.MonthlyBudget {
		return nil
	}

	// Mail failures must not block the transaction write.
	if err := m.mail.SendBudgetExceededEmail(&user, user.MonthlyBudget, currentExpenses); err != nil {
		log.Printf("budget alert mail to user %d: %v", userID, err)
	}

	// Record the alert regardless of mail delivery outcome.
	if err := database.DB.Model(&user).Update("budget_alert_sent", now).Error; err != nil {
		log.Printf("budget check: record alert for user %d: %v", userID, err)
		return nil
	}

	return &AlertResult{
		Kind:            "budget_exceeded",
		Message:         "Monthly budget limit exceeded!",
		MonthlyBudget:   user.MonthlyBudget,
		CurrentExpenses: currentExpenses,
		OverspentBy:     currentExpenses - user.MonthlyBudget,
	}
}
