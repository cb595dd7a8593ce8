// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderStatusUpdate EmailType = "order_status_update"
	EmailTypePaymentSuccess    EmailType = "payment_success"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName  string `json:"site_name"`
	SiteURL   string `json:"site_url"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Year      int    `json:"year"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber   string      `json:"order_number"`
	OrderDate     string      `json:"order_date"`
	OrderTotal    string      `json:"order_total"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
}

// OrderItem represents an item in the order
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// PaymentNotificationData contains data for payment notifications
type PaymentNotificationData struct {
	EmailTemplateData
	OrderNumber string `json:"order_number"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// OrderStatusUpdateData contains data for order status updates
type OrderStatusUpdateData struct {
	EmailTemplateData
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	TrackingCode  string `json:"tracking_code,omitempty"`
	StatusMessage string `json:"status_message"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		UserName:  userName,
		UserEmail: userEmail,
		Year:      time.Now().Year(),
	}
}
