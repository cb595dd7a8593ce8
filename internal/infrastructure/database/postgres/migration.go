// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/dajow/dajow-backend/internal/domain/catalog"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/domain/saved"
	"github.com/dajow/dajow-backend/internal/domain/upload"
	"github.com/dajow/dajow-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},

		&catalog.Product{},
		&catalog.ProductVariant{},

		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
		&order.OrderStatusHistory{},

		&saved.SavedItem{},

		&upload.UploadedFile{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_stock ON products(category, in_stock)",
		"CREATE INDEX IF NOT EXISTS idx_products_section ON products(section)",
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email)",
		"CREATE INDEX IF NOT EXISTS idx_orders_provider_session ON orders(provider_session_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_provider_session ON payments(provider_session_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Saved items indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_items_user_product ON saved_items(user_id, product_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "admin@dajow.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:         "admin@dajow.com",
			Password:      string(hashedPassword),
			FirstName:     "Admin",
			LastName:      "User",
			IsActive:      true,
			IsAdmin:       true,
			EmailVerified: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@dajow.com")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

// seedSampleProducts creates a small storefront catalog for development
func (m *Migration) seedSampleProducts() error {
	var productCount int64
	m.db.Model(&catalog.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("⏭️ Products already exist, skipping seed")
		return nil
	}

	sampleProducts := []catalog.Product{
		{
			Name:        "Classic Monogram Tote",
			Slug:        "classic-monogram-tote",
			Description: "Structured everyday tote in coated canvas with leather trim.",
			Price:       45000,
			Category:    "bags",
			Section:     "featured",
			Image:       "/uploads/products/classic-monogram-tote.jpg",
			InStock:     true,
		},
		{
			Name:        "Mini Crossbody Bag",
			Slug:        "mini-crossbody-bag",
			Description: "Compact crossbody with adjustable strap and gold-tone hardware.",
			Price:       28000,
			Category:    "bags",
			Section:     "new-arrivals",
			Image:       "/uploads/products/mini-crossbody-bag.jpg",
			InStock:     true,
		},
		{
			Name:        "Silk Twill Scarf",
			Slug:        "silk-twill-scarf",
			Description: "Hand-rolled silk twill scarf in a signature print.",
			Price:       12000,
			Category:    "accessories",
			Section:     "featured",
			Image:       "/uploads/products/silk-twill-scarf.jpg",
			InStock:     true,
		},
		{
			Name:        "Leather Card Holder",
			Slug:        "leather-card-holder",
			Description: "Slim four-slot card holder in pebbled leather.",
			Price:       8500,
			Category:    "accessories",
			Section:     "new-arrivals",
			Image:       "/uploads/products/leather-card-holder.jpg",
			InStock:     true,
			Variants: []catalog.ProductVariant{
				{Name: "Black"},
				{Name: "Tan"},
			},
		},
	}

	for _, prod := range sampleProducts {
		if err := m.db.Create(&prod).Error; err != nil {
			log.Printf("⚠️ Failed to create sample product %s: %v", prod.Slug, err)
		}
	}

	log.Printf("✅ Seeded %d sample products", len(sampleProducts))
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"order_status_history",
		"payments",
		"order_items",
		"orders",
		"saved_items",
		"uploaded_files",
		"product_variants",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("   %-25s | %d records", table, count)
	}

	return nil
}
