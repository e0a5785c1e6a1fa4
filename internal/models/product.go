// internal/models/product.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

type Brand struct {
	SoftDeleteModel
	Name string `json:"name" gorm:"size:256;not null;uniqueIndex"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:RESTRICT"`
}

type Product struct {
	SoftDeleteModel
	BrandID    uuid.UUID       `json:"brand_id" gorm:"type:uuid;not null;uniqueIndex:idx_products_brand_name,priority:1,where:deleted_at IS NULL"`
	CategoryID *uint           `json:"category_id" gorm:"index"`
	Name       string          `json:"name" gorm:"size:256;not null;uniqueIndex:idx_products_brand_name,priority:2;index"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;check:chk_products_price,price >= 0"`
	Quantity   int             `json:"quantity" gorm:"not null;check:chk_products_quantity,quantity >= 0"`

	// Relationships
	Brand    *Brand         `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Category *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// AbsoluteURL is the public path of the product, "{brand}/{id}".
// Brand must be loaded.
func (p *Product) AbsoluteURL() string {
	if p.Brand == nil {
		return p.ID.String()
	}
	return fmt.Sprintf("%s/%s", p.Brand.Name, p.ID)
}

type ProductImage struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	URL        string    `json:"url" gorm:"size:2048;not null;uniqueIndex"`
	StorageKey string    `json:"-" gorm:"size:1024"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
