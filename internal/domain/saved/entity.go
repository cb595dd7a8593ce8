// internal/domain/saved/entity.go
package saved

import (
	"time"
)

// SavedItem represents a product a customer saved for later. A user can
// save a product at most once.
type SavedItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (SavedItem) TableName() string {
	return "saved_items"
}

// SaveItemRequest represents a save-for-later request
type SaveItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}
