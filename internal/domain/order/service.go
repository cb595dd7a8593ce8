// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
)

// ErrOrderNotFound is returned when an order does not exist
var ErrOrderNotFound = errors.New("order not found")

// ErrNotOwner is returned when a customer reads someone else's order
var ErrNotOwner = errors.New("order does not belong to this user")

// InvalidTransitionError reports a rejected status change
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// CreateOrderInput carries everything needed to persist a new order.
// Amounts arrive already computed; the order stores them as-is and they
// are never re-derived.
type CreateOrderInput struct {
	UserID          *uint
	Email           string
	Items           []OrderItem
	SubtotalAmount  int64
	TaxAmount       int64
	ShippingAmount  int64
	TotalAmount     int64
	Currency        string
	ShippingDetails ShippingDetails
	PaymentMethod   PaymentMethod
	PaymentProvider string
}

// ListOrdersRequest represents admin order list filters
type ListOrdersRequest struct {
	Status    string `form:"status"`
	Email     string `form:"email"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortOrder string `form:"sort_order,default=desc"`
}

// OrderListResponse represents a paginated order list
type OrderListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status       OrderStatus `json:"status" binding:"required"`
	TrackingCode string      `json:"tracking_code"`
	Comment      string      `json:"comment"`
}

// CreateOrder persists a new pending order with its items and the first
// status history entry in a single transaction
func (s *Service) CreateOrder(input *CreateOrderInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	var created Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderNumber, err := s.generateOrderNumber(tx)
		if err != nil {
			return err
		}

		created = Order{
			OrderNumber:     orderNumber,
			UserID:          input.UserID,
			Email:           input.Email,
			Status:          OrderStatusPending,
			SubtotalAmount:  input.SubtotalAmount,
			TaxAmount:       input.TaxAmount,
			ShippingAmount:  input.ShippingAmount,
			TotalAmount:     input.TotalAmount,
			Currency:        input.Currency,
			ShippingDetails: input.ShippingDetails,
			PaymentMethod:   input.PaymentMethod,
			PaymentProvider: input.PaymentProvider,
			Items:           input.Items,
		}

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := OrderStatusHistory{
			OrderID:   created.ID,
			Status:    OrderStatusPending,
			Comment:   "Order created",
			CreatedBy: "customer",
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": created.OrderNumber,
		"total":        created.TotalAmount,
		"method":       created.PaymentMethod,
	}).Info("Order created")

	return &created, nil
}

// GetOrder retrieves an order by ID with items and history
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&o)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrderByNumber retrieves an order by its order number
func (s *Service) GetOrderByNumber(number string) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("order_number = ?", number).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrderBySession retrieves an order by its gateway session id
func (s *Service) GetOrderBySession(providerSessionID string) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("provider_session_id = ?", providerSessionID).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetCustomerOrder retrieves an order and checks ownership
func (s *Service) GetCustomerOrder(userID, orderID uint) (*Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID == nil || *o.UserID != userID {
		return nil, ErrNotOwner
	}
	return o, nil
}

// GetUserOrders lists a customer's orders newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// ListOrders lists orders for the admin with filters and pagination
func (s *Service) ListOrders(req *ListOrdersRequest) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{})

	if req.Status != "" {
		if !IsValidStatus(OrderStatus(req.Status)) {
			return nil, fmt.Errorf("unknown status %q", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.Email != "" {
		query = query.Where("email = ?", req.Email)
	}
	if req.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
			query = query.Where("created_at >= ?", from)
		}
	}
	if req.DateTo != "" {
		if to, err := time.Parse("2006-01-02", req.DateTo); err == nil {
			query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortOrder := "created_at DESC"
	if req.SortOrder == "asc" {
		sortOrder = "created_at ASC"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("Items").
		Order(sortOrder).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

// UpdateStatus moves an order through the status machine. The transition
// table is enforced here for every caller, admin or webhook.
func (s *Service) UpdateStatus(orderID uint, newStatus OrderStatus, trackingCode, comment, actor string) (*Order, error) {
	if !IsValidStatus(newStatus) {
		return nil, fmt.Errorf("unknown status %q", newStatus)
	}

	var o Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", orderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to find order: %w", err)
		}

		if !IsValidTransition(o.Status, newStatus) {
			return &InvalidTransitionError{From: o.Status, To: newStatus}
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case OrderStatusPaid:
			updates["paid_at"] = now
		case OrderStatusShipped:
			updates["shipped_at"] = now
			if trackingCode != "" {
				updates["tracking_code"] = trackingCode
			}
		case OrderStatusDelivered:
			updates["delivered_at"] = now
		case OrderStatusCancelled:
			updates["cancelled_at"] = now
		}

		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := OrderStatusHistory{
			OrderID:   o.ID,
			Status:    newStatus,
			Comment:   comment,
			CreatedBy: actor,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}

		o.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"status":       newStatus,
		"actor":        actor,
	}).Info("Order status updated")

	return &o, nil
}

// MarkPaidBySession transitions the order behind a gateway session to
// paid and records the payment. Already-paid orders are a no-op so the
// verify endpoint and webhook retries can both land here safely.
func (s *Service) MarkPaidBySession(providerSessionID string, amount int64, currency, actor string) (*Order, error) {
	o, err := s.GetOrderBySession(providerSessionID)
	if err != nil {
		return nil, err
	}

	if o.Status == OrderStatusPaid {
		return o, nil
	}

	updated, err := s.UpdateStatus(o.ID, OrderStatusPaid, "", "Payment confirmed by gateway", actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := Payment{
		OrderID:           o.ID,
		Provider:          o.PaymentProvider,
		ProviderSessionID: providerSessionID,
		Amount:            amount,
		Currency:          currency,
		Status:            PaymentStatusPaid,
		ProcessedAt:       &now,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return updated, nil
}

// CancelOrder cancels an order if its current status allows it
func (s *Service) CancelOrder(orderID uint, reason, actor string) (*Order, error) {
	return s.UpdateStatus(orderID, OrderStatusCancelled, "", reason, actor)
}

// AttachGatewaySession stores the gateway session id and hosted checkout
// URL on a freshly created order
func (s *Service) AttachGatewaySession(orderID uint, providerSessionID, checkoutURL string) error {
	result := s.db.Model(&Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"provider_session_id": providerSessionID,
		"checkout_url":        checkoutURL,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to attach gateway session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ExpireStalePending cancels unpaid pending orders older than the cutoff
func (s *Service) ExpireStalePending(olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var stale []Order
	if err := s.db.Where("status = ? AND created_at < ?", OrderStatusPending, cutoff).Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("failed to find stale pending orders: %w", err)
	}

	expired := 0
	for _, o := range stale {
		if _, err := s.CancelOrder(o.ID, "Expired unpaid pending order", "system"); err != nil {
			s.logger.WithError(err).WithField("order_number", o.OrderNumber).
				Warn("Failed to expire stale pending order")
			continue
		}
		expired++
	}

	return expired, nil
}

// StartExpirySweeper runs the stale-pending sweep on an interval until
// the context is cancelled
func (s *Service) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := s.ExpireStalePending(s.config.Checkout.PendingOrderTTL)
				if err != nil {
					s.logger.WithError(err).Error("Stale pending sweep failed")
					continue
				}
				if expired > 0 {
					s.logger.WithField("expired", expired).Info("Cancelled stale pending orders")
				}
			}
		}
	}()
}

// generateOrderNumber builds a daily sequential order number like
// ORD-20250115-00042
func (s *Service) generateOrderNumber(tx *gorm.DB) (string, error) {
	now := time.Now().UTC()
	today := now.Format("20060102")
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var count int64
	if err := tx.Model(&Order{}).Unscoped().Where("created_at >= ?", startOfDay).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count today's orders: %w", err)
	}

	return fmt.Sprintf("ORD-%s-%05d", today, count+1), nil
}
