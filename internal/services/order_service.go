// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/storefront-backend/internal/database"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/pricing"
)

type OrderService struct {
	db *gorm.DB
}

type OrderItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	ProductQuantity int             `json:"product_quantity"`
	IsDiscount      bool            `json:"is_discount"`
	Discount        decimal.Decimal `json:"discount"`
}

type CreateOrderRequest struct {
	UserID      string             `json:"user_id" validate:"required,id_number"`
	IsPaid      bool               `json:"is_paid"`
	IsDelivered bool               `json:"is_delivered"`
	IsCancelled bool               `json:"is_cancelled"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	IsPaid      *bool `json:"is_paid,omitempty"`
	IsDelivered *bool `json:"is_delivered,omitempty"`
	IsCancelled *bool `json:"is_cancelled,omitempty"`
}

// OrderLine is one priced line of an order summary. Money values are decimal
// strings with two places.
type OrderLine struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductQuantity int       `json:"product_quantity"`
	UnitPrice       string    `json:"unit_price"`
	IsDiscount      bool      `json:"is_discount"`
	Discount        string    `json:"discount"`
	TotalPrice      string    `json:"total_price"`
}

type OrderSummary struct {
	OrderID     uuid.UUID   `json:"order_id"`
	UserID      string      `json:"user_id"`
	FullName    string      `json:"full_name"`
	Products    []OrderLine `json:"products"`
	TotalPrice  string      `json:"total_price"`
	IsPaid      bool        `json:"is_paid"`
	IsDelivered bool        `json:"is_delivered"`
	IsCancelled bool        `json:"is_cancelled"`
	CreatedAt   time.Time   `json:"created_at"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

func orderQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := orderQuery(s.db.WithContext(ctx)).Order("created_at, id").Find(&orders).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := orderQuery(s.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeOrderNotFound, "order not found"))
	}
	return &order, nil
}

// Summaries prices every order.
func (s *OrderService) Summaries(ctx context.Context) ([]OrderSummary, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		summary, err := BuildSummary(&orders[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *OrderService) Summary(ctx context.Context, id uuid.UUID) (*OrderSummary, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildSummary(order)
}

// BuildSummary prices an order whose user and item products are loaded.
func BuildSummary(order *models.Order) (*OrderSummary, error) {
	summary := &OrderSummary{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Products:    make([]OrderLine, 0, len(order.Items)),
		IsPaid:      order.IsPaid,
		IsDelivered: order.IsDelivered,
		IsCancelled: order.IsCancelled,
		CreatedAt:   order.CreatedAt,
	}
	if order.User != nil {
		summary.FullName = order.User.FullName()
	}

	items := make([]pricing.LineItem, len(order.Items))
	for i := range order.Items {
		line, err := order.Items[i].LineItem()
		if err != nil {
			return nil, err
		}
		items[i] = line
	}

	priced, err := pricing.Summarize(items)
	if err != nil {
		return nil, pricingError(err)
	}

	for i, item := range order.Items {
		line := OrderLine{
			ProductID:       item.ProductID,
			ProductName:     item.Product.Name,
			ProductQuantity: item.ProductQuantity,
			UnitPrice:       items[i].UnitPrice.StringFixed(2),
			IsDiscount:      item.IsDiscount,
			Discount:        items[i].EffectiveDiscount().StringFixed(2),
			TotalPrice:      priced.Lines[i].StringFixed(2),
		}
		summary.Products = append(summary.Products, line)
	}
	summary.TotalPrice = priced.Total.StringFixed(2)

	return summary, nil
}

func pricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidDiscount):
		return newError(ErrValidation, CodeInvalidDiscount, "discount must be between 0 and 1", err)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return newError(ErrValidation, CodeInvalidQuantity, "quantity must be at least 1", err)
	case errors.Is(err, pricing.ErrInvalidPrice):
		return newError(ErrValidation, CodeInvalidPrice, "price must not be negative", err)
	default:
		return err
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	for _, item := range req.Items {
		line := pricing.LineItem{Quantity: item.ProductQuantity, HasDiscount: item.IsDiscount, Discount: item.Discount}
		if err := line.Validate(); err != nil {
			return nil, pricingError(err)
		}
		if _, ok := seen[item.ProductID]; ok {
			return nil, conflictError(CodeAlreadyExists, "an order lists each product once",
				map[string]string{"product_id": item.ProductID.String()})
		}
		seen[item.ProductID] = struct{}{}
	}

	order := &models.Order{
		UserID:      req.UserID,
		IsPaid:      req.IsPaid,
		IsDelivered: req.IsDelivered,
		IsCancelled: req.IsCancelled,
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Select("id_number").First(&models.User{}, "id_number = ?", req.UserID).Error; err != nil {
			return dbError(err, notFoundError(CodeUserNotFound, "user not found"))
		}

		var count int64
		ids := make([]uuid.UUID, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return notFoundError(CodeProductNotFound, "order references an unknown product")
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = models.OrderItem{
				OrderID:         order.ID,
				ProductID:       item.ProductID,
				ProductQuantity: item.ProductQuantity,
				IsDiscount:      item.IsDiscount,
				Discount:        item.Discount.Round(2),
			}
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		return nil, dbError(err, nil)
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	updates := map[string]interface{}{}
	if req.IsPaid != nil {
		updates["is_paid"] = *req.IsPaid
	}
	if req.IsDelivered != nil {
		updates["is_delivered"] = *req.IsDelivered
	}
	if req.IsCancelled != nil {
		updates["is_cancelled"] = *req.IsCancelled
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, dbError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return nil, notFoundError(CodeOrderNotFound, "order not found")
		}
	}

	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order and its lines.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		return dbError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return notFoundError(CodeOrderNotFound, "order not found")
	}
	return nil
}
