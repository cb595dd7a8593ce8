// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a storefront product.
// Price is stored in minor currency units.
type Product struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	Name        string `json:"name" gorm:"not null;size:255"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description string `json:"description" gorm:"type:text"`
	Price       int64  `json:"price" gorm:"not null"`
	Category    string `json:"category" gorm:"not null;size:100;index"`
	Section     string `json:"section" gorm:"size:100;index"`
	Image       string `json:"image" gorm:"size:500"`
	InStock     bool   `json:"in_stock" gorm:"default:true"`

	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProductVariant represents a selectable option of a product, e.g. a colorway
type ProductVariant struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest represents the admin request to create a product
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=255"`
	Description string   `json:"description"`
	Price       int64    `json:"price" binding:"required,min=1"`
	Category    string   `json:"category" binding:"required"`
	Section     string   `json:"section"`
	Image       string   `json:"image"`
	InStock     *bool    `json:"in_stock"`
	Variants    []string `json:"variants"`
}

// UpdateProductRequest represents the admin request to update a product
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price"`
	Category    *string  `json:"category"`
	Section     *string  `json:"section"`
	Image       *string  `json:"image"`
	InStock     *bool    `json:"in_stock"`
	Variants    []string `json:"variants"`
}

// ListProductsRequest represents the storefront catalog query
type ListProductsRequest struct {
	Category string `form:"category"`
	Section  string `form:"section"`
	Search   string `form:"search"`
	InStock  *bool  `form:"in_stock"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
