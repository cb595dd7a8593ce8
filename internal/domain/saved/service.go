// internal/domain/saved/service.go
package saved

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/catalog"
)

var (
	// ErrAlreadySaved is returned when the product is already on the list
	ErrAlreadySaved = errors.New("product already saved")
	// ErrNotSaved is returned when the product is not on the list
	ErrNotSaved = errors.New("product not in saved items")
)

// Service handles saved-for-later business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new saved items service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SavedItemResponse is a saved item joined with its current product
// state. Product is nil when the product has since been removed.
type SavedItemResponse struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	Product   *catalog.Product `json:"product,omitempty"`
	SavedAt   time.Time        `json:"saved_at"`
	Available bool             `json:"available"`
}

// SavedListResponse represents the full saved list
type SavedListResponse struct {
	Items []SavedItemResponse `json:"items"`
	Count int                 `json:"count"`
}

// List retrieves all saved items for a user, newest first
func (s *Service) List(userID uint) (*SavedListResponse, error) {
	var items []SavedItem
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve saved items: %w", err)
	}

	resp := &SavedListResponse{
		Items: make([]SavedItemResponse, len(items)),
		Count: len(items),
	}

	for i, item := range items {
		resp.Items[i] = SavedItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			SavedAt:   item.CreatedAt,
		}

		var prod catalog.Product
		err := s.db.Preload("Variants").Where("id = ?", item.ProductID).First(&prod).Error
		if err != nil {
			continue
		}
		resp.Items[i].Product = &prod
		resp.Items[i].Available = prod.InStock
	}

	return resp, nil
}

// Save adds a product to the user's saved list
func (s *Service) Save(userID, productID uint) (*SavedItem, error) {
	var prod catalog.Product
	if err := s.db.Where("id = ?", productID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	var existing SavedItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySaved
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check saved items: %w", err)
	}

	item := SavedItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	return &item, nil
}

// Remove deletes a product from the user's saved list
func (s *Service) Remove(userID, productID uint) error {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&SavedItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove saved item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

// IsSaved checks whether a product is on the user's saved list
func (s *Service) IsSaved(userID, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&SavedItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// Count returns the number of saved items for a user
func (s *Service) Count(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&SavedItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
