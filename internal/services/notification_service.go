// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Name":         user.FirstName,
		"DashboardURL": fmt.Sprintf("%s/dashboard", s.config.Frontend.BaseURL),
		"PlatformName": "AgriFund",
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendKYCStatusEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("kyc_status")

	data := map[string]interface{}{
		"Name":       user.FirstName,
		"Status":     string(user.KYCStatus),
		"ProfileURL": fmt.Sprintf("%s/profile", s.config.Frontend.BaseURL),
	}

	subject := fmt.Sprintf("KYC verification %s", user.KYCStatus)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendFarmStatusEmail(farm *models.Farm) error {
	tmpl := s.getEmailTemplate("farm_status")

	data := map[string]interface{}{
		"Name":     farm.Owner.FirstName,
		"FarmName": farm.Name,
		"Status":   string(farm.Status),
		"FarmURL":  fmt.Sprintf("%s/farms/%s", s.config.Frontend.BaseURL, farm.ID),
	}

	subject := fmt.Sprintf("Your farm %s is now %s", farm.Name, farm.Status)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(farm.Owner.Email, subject, body)
}

func (s *NotificationService) SendWithdrawalStatusEmail(withdrawal *models.Withdrawal) {
	tmpl := s.getEmailTemplate("withdrawal_status")

	data := map[string]interface{}{
		"Name":   withdrawal.Investor.FirstName,
		"Amount": withdrawal.Amount.StringFixed(2),
		"Status": string(withdrawal.Status),
		"Method": string(withdrawal.Method),
	}

	subject := fmt.Sprintf("Withdrawal %s", withdrawal.Status)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render withdrawal email")
		return
	}

	if err := s.sendEmail(withdrawal.Investor.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("withdrawal_id", withdrawal.ID).
			Error("Failed to send withdrawal email")
	}
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).
			Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to AgriFund",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Name}}!</h2>
	<p>Thank you for joining AgriFund. Your account is ready.</p>
	<a href="{{.DashboardURL}}">Go to your dashboard</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"kyc_status": {
			Subject: "KYC verification update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>Your identity verification status is now <strong>{{.Status}}</strong>.</p>
	<a href="{{.ProfileURL}}">View your profile</a>
	<p>Best regards,<br>AgriFund Team</p>
</body>
</html>`,
		},
		"farm_status": {
			Subject: "Farm status update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>Your farm "{{.FarmName}}" is now <strong>{{.Status}}</strong>.</p>
	<a href="{{.FarmURL}}">View your farm</a>
	<p>Best regards,<br>AgriFund Team</p>
</body>
</html>`,
		},
		"withdrawal_status": {
			Subject: "Withdrawal update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>Your {{.Method}} withdrawal of ${{.Amount}} is now <strong>{{.Status}}</strong>.</p>
	<p>Best regards,<br>AgriFund Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
