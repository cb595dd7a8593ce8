// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"

	"github.com/dajow/dajow-backend/internal/config"
)

// EmailService handles transactional storefront emails
type EmailService struct {
	config    *config.Config
	logger    *logrus.Logger
	templates map[string]*template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	service := &EmailService{
		config:    cfg,
		logger:    logger,
		templates: make(map[string]*template.Template),
	}

	service.loadTemplates()

	return service
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendAsync sends an email on a background goroutine. Delivery failures
// are logged, never surfaced to the request path.
func (s *EmailService) SendAsync(email *Email) {
	go func() {
		if err := s.SendEmail(context.Background(), email); err != nil {
			s.logger.WithFields(logrus.Fields{
				"type":    email.Type,
				"subject": email.Subject,
			}).WithError(err).Warn("Failed to send email")
		}
	}()
}

// SendOrderConfirmationEmail sends order confirmation email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	data.EmailTemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.BaseURL,
		data.UserName,
		data.UserEmail,
	)

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	}

	return s.SendEmail(ctx, email)
}

// SendPaymentSuccessEmail sends payment success notification
func (s *EmailService) SendPaymentSuccessEmail(ctx context.Context, data PaymentNotificationData) error {
	data.EmailTemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.BaseURL,
		data.UserName,
		data.UserEmail,
	)

	htmlContent, err := s.renderTemplate("payment_success", data)
	if err != nil {
		return fmt.Errorf("failed to render payment success template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Payment Successful - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypePaymentSuccess,
	}

	return s.SendEmail(ctx, email)
}

// SendOrderStatusUpdateEmail sends order status update notification
func (s *EmailService) SendOrderStatusUpdateEmail(ctx context.Context, data OrderStatusUpdateData) error {
	data.EmailTemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.BaseURL,
		data.UserName,
		data.UserEmail,
	)

	htmlContent, err := s.renderTemplate("order_status_update", data)
	if err != nil {
		return fmt.Errorf("failed to render order status update template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Update - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
	}

	return s.SendEmail(ctx, email)
}

// loadTemplates parses the built-in email templates
func (s *EmailService) loadTemplates() {
	for name, body := range builtinTemplates {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			s.logger.WithField("template", name).WithError(err).Warn("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

var builtinTemplates = map[string]string{
	"order_confirmation": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>Thank you for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td style="padding: 4px 0;">{{.Quantity}}x {{.Name}}</td>
                <td style="padding: 4px 0; text-align: right;">{{.Total}}</td>
            </tr>
            {{end}}
        </table>
        <p><strong>Total: {{.OrderTotal}}</strong></p>
        <p>Payment method: {{.PaymentMethod}}</p>
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`,
	"payment_success": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>We received your payment of <strong>{{.Amount}}</strong> for order <strong>{{.OrderNumber}}</strong> on {{.Date}}.</p>
        <p>Your order is now being prepared.</p>
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`,
	"order_status_update": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>Your order <strong>{{.OrderNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
        {{if .TrackingCode}}<p>Tracking code: {{.TrackingCode}}</p>{{end}}
        {{if .StatusMessage}}<p>{{.StatusMessage}}</p>{{end}}
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`,
}
