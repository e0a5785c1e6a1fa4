// internal/models/order.go
package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javajoker/storefront-backend/internal/pricing"
)

type Order struct {
	BaseModel
	UserID      string `json:"user_id" gorm:"size:16;not null;index"`
	IsPaid      bool   `json:"is_paid" gorm:"not null;default:false"`
	IsDelivered bool   `json:"is_delivered" gorm:"not null;default:false"`
	IsCancelled bool   `json:"is_cancelled" gorm:"not null;default:false"`

	// Relationships
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID;references:IDNumber"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product,priority:1"`
	ProductID       uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product,priority:2;index"`
	ProductQuantity int             `json:"product_quantity" gorm:"not null;check:chk_order_items_quantity,product_quantity >= 1"`
	IsDiscount      bool            `json:"is_discount" gorm:"not null;default:false"`
	Discount        decimal.Decimal `json:"discount" gorm:"type:decimal(3,2);not null;check:chk_order_items_discount,discount >= 0 AND discount <= 1"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ErrProductNotLoaded is returned when an order item is priced without its
// product.
var ErrProductNotLoaded = errors.New("order item product is not loaded")

// LineItem converts the row into a pricing line.
func (i *OrderItem) LineItem() (pricing.LineItem, error) {
	if i.Product == nil {
		return pricing.LineItem{}, fmt.Errorf("%w: %s", ErrProductNotLoaded, i.ProductID)
	}
	return pricing.LineItem{
		UnitPrice:   i.Product.Price,
		Quantity:    i.ProductQuantity,
		HasDiscount: i.IsDiscount,
		Discount:    i.Discount,
	}, nil
}
