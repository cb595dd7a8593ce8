// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dajow/dajow-backend/internal/config"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product does not exist
var ErrProductNotFound = errors.New("product not found")

// Service handles catalog business logic.
// The storefront reads only; writes go through the admin routes.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListProducts retrieves products with filtering and pagination
func (s *Service) ListProducts(req *ListProductsRequest) (*ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Variants")

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Section != "" {
		query = query.Where("section = ?", req.Section)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.InStock != nil {
		query = query.Where("in_stock = ?", *req.InStock)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortDir))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Variants").Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	result := s.db.Preload("Variants").Where("slug = ?", slug).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetProductsByIDs retrieves a batch of products keyed by ID.
// Missing ids are simply absent from the result.
func (s *Service) GetProductsByIDs(ids []uint) (map[uint]*Product, error) {
	if len(ids) == 0 {
		return map[uint]*Product{}, nil
	}

	var products []Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	byID := make(map[uint]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// CreateProduct creates a new product (admin only)
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := Product{
		Name:        req.Name,
		Slug:        s.generateSlug(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Section:     req.Section,
		Image:       req.Image,
		InStock:     inStock,
	}

	for _, variant := range req.Variants {
		product.Variants = append(product.Variants, ProductVariant{Name: variant})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product (admin only)
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Section != nil {
		updates["section"] = *req.Section
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if req.Variants != nil {
		if err := s.replaceVariants(product.ID, req.Variants); err != nil {
			return nil, err
		}
	}

	s.db.Preload("Variants").First(&product, product.ID)

	return &product, nil
}

// SetStock toggles a product's availability flag (admin only)
func (s *Service) SetStock(id uint, inStock bool) error {
	result := s.db.Model(&Product{}).Where("id = ?", id).Update("in_stock", inStock)
	if result.Error != nil {
		return fmt.Errorf("failed to update stock flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct soft deletes a product (admin only)
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CountProducts returns the number of products in the catalog
func (s *Service) CountProducts() (int64, error) {
	var count int64
	if err := s.db.Model(&Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (s *Service) replaceVariants(productID uint, names []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&ProductVariant{}).Error; err != nil {
			return fmt.Errorf("failed to clear variants: %w", err)
		}
		for _, name := range names {
			variant := ProductVariant{ProductID: productID, Name: name}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("failed to create variant: %w", err)
			}
		}
		return nil
	})
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortDir string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortDir != "asc" && sortDir != "desc" {
		sortDir = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortDir)
}

// generateSlug generates a URL-friendly slug from a product name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug = strings.TrimSuffix(b.String(), "-")

	// Suffix on collision rather than always, so seeded slugs stay stable
	var count int64
	s.db.Model(&Product{}).Where("slug = ? OR slug LIKE ?", slug, slug+"-%").Count(&count)
	if count > 0 {
		slug = fmt.Sprintf("%s-%d", slug, count+1)
	}

	return slug
}
