// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dajow/dajow-backend/internal/config"
)

// Identity scopes. Each cart belongs to exactly one scope: a logged-in
// user or an anonymous browser session.

// UserScope returns the cart scope for an authenticated user
func UserScope(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// SessionScope returns the cart scope for a guest session
func SessionScope(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Service persists cart snapshots in Redis.
// Every mutation rewrites the whole snapshot under a single key so the
// stored cart is always a consistent view.
type Service struct {
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		config:      cfg,
	}
}

func cartKey(scope string) string {
	return "cart:" + scope
}

// GetCart retrieves the cart for a scope. A missing key yields an empty cart.
func (s *Service) GetCart(ctx context.Context, scope string) (*Cart, error) {
	data, err := s.redisClient.Get(ctx, cartKey(scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewCart(scope), nil
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	c.Scope = scope
	return &c, nil
}

// AddItem merges a line into the scope's cart and persists the snapshot
func (s *Service) AddItem(ctx context.Context, scope string, line Line) (*Cart, error) {
	c, err := s.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	c.Add(line)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DecreaseItem lowers a line's quantity by one, removing it at zero
func (s *Service) DecreaseItem(ctx context.Context, scope string, productID uint) (*Cart, error) {
	c, err := s.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	c.Decrease(productID)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a line from the scope's cart
func (s *Service) RemoveItem(ctx context.Context, scope string, productID uint) (*Cart, error) {
	c, err := s.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart drops the scope's cart snapshot entirely
func (s *Service) ClearCart(ctx context.Context, scope string) error {
	if err := s.redisClient.Del(ctx, cartKey(scope)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, cartKey(c.Scope), data, s.config.Checkout.CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}
