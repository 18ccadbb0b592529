package service

import (
	"testing"

	"serenicash/config"
	"serenicash/models"

	"github.com/stretchr/testify/assert"
)

func TestSendBudgetExceededEmail_Disabled(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: false})

	err := s.SendBudgetExceededEmail(&models.User{ID: 1, Email: "a@example.com"}, 500, 600)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestSendBudgetExceededEmail_NoAddress(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true})

	err := s.SendBudgetExceededEmail(&models.User{ID: 1, Username: "alice"}, 500, 600)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
}

func TestGenerateBudgetAlertBody(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{})

	body := s.generateBudgetAlertBody("alice", 500, 550)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "$500.00")
	assert.Contains(t, body, "$550.00")
	assert.Contains(t, body, "$50.00")
	assert.Contains(t, body, "110.0%")
	assert.Contains(t, body, "SereniCash")
}
