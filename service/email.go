package service

import (
	"fmt"

	"serenicash/config"
	"serenicash/models"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates a mail sender.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendBudgetExceededEmail notifies a user that their current-month expenses
// passed the configured budget. Callers treat any error as non-fatal.
func (s *EmailService) SendBudgetExceededEmail(user *models.User, budget, currentExpenses float64) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is disabled, set EMAIL_ENABLED=true to send alerts")
	}
	if user.Email == "" {
		return fmt.Errorf("user %d has no email address", user.ID)
	}

	subject := "⚠️ Budget Alert: Monthly Limit Exceeded"
	body := s.generateBudgetAlertBody(user.Username, budget, currentExpenses)

	return s.sendEmail(user.Email, subject, body)
}

// generateBudgetAlertBody renders the alert mail.
func (s *EmailService) generateBudgetAlertBody(username string, budget, currentExpenses float64) string {
	overspent := currentExpenses - budget
	percentage := 0.0
	if budget > 0 {
		percentage = currentExpenses / budget * 100
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #dc2626, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .stats { background: #fef2f2; border: 2px dashed #dc2626; border-radius: 12px; padding: 25px; margin: 25px 0; }
        .stats table { width: 100%%; border-collapse: collapse; }
        .stats td { padding: 6px 0; color: #333; }
        .stats td.num { text-align: right; font-weight: bold; }
        .overspent { color: #dc2626; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 SereniCash</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>Your spending this month has exceeded your monthly budget.</p>
            <div class="stats">
                <table>
                    <tr><td>Monthly budget</td><td class="num">$%.2f</td></tr>
                    <tr><td>Spent so far</td><td class="num">$%.2f</td></tr>
                    <tr><td>Over budget</td><td class="num overspent">$%.2f (%.1f%%)</td></tr>
                </table>
            </div>
            <div class="warning">
                <p>⚠️ Review your recent expenses and consider adjusting your spending for the rest of the month.</p>
            </div>
            <p>You will not receive another alert until next month, or until you update your budget.</p>
        </div>
        <div class="footer">
            <p>This is an automated message, please do not reply</p>
            <p>© SereniCash - Your Personal Budget Manager</p>
        </div>
    </div>
</body>
</html>
`, username, budget, currentExpenses, overspent, percentage)
}

// sendEmail delivers one message over SMTP.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SendTestEmail verifies the SMTP configuration.
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is disabled")
	}

	subject := "SereniCash email configuration test"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Email configured correctly</h2>
    <p>If you received this message, the SMTP settings work.</p>
    <p style="color: #666;">— SereniCash</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
