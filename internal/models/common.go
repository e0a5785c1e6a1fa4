// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id up front so callers can build storage keys and
// child rows before the insert round-trips.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SoftDeleteModel rows are hidden from every default-scoped query once
// DeletedAt is set.
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Table names, in dependency order (children first).
const (
	TableOrderItems    = "order_items"
	TableOrders        = "orders"
	TableProductImages = "product_images"
	TableProducts      = "products"
	TableBrands        = "brands"
	TableCategories    = "categories"
	TableUserAddresses = "user_addresses"
	TableUsers         = "users"
)

// CatalogTables are the tables cleared by a full catalog purge.
var CatalogTables = []string{
	TableOrderItems,
	TableOrders,
	TableProductImages,
	TableProducts,
	TableBrands,
	TableCategories,
}

// All lists every model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Brand{},
		&Product{},
		&ProductImage{},
		&User{},
		&UserAddress{},
		&Order{},
		&OrderItem{},
	}
}
