package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/storefront-backend/internal/models"
)

func orderItem(name, price string, qty int, discounted bool, discount string) models.OrderItem {
	return models.OrderItem{
		ProductID:       uuid.New(),
		ProductQuantity: qty,
		IsDiscount:      discounted,
		Discount:        decimal.RequireFromString(discount),
		Product:         &models.Product{Name: name, Price: decimal.RequireFromString(price)},
	}
}

func TestBuildSummary(t *testing.T) {
	order := &models.Order{
		UserID: "3201010101010001",
		IsPaid: true,
		User:   &models.User{FirstName: "Jane", LastName: "Doe"},
		Items: []models.OrderItem{
			orderItem("Widget", "10.00", 2, true, "0.25"),
			orderItem("Gadget", "5.00", 1, false, "0.50"),
		},
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	summary, err := BuildSummary(order)
	require.NoError(t, err)

	assert.Equal(t, order.ID, summary.OrderID)
	assert.Equal(t, "Jane Doe", summary.FullName)
	assert.True(t, summary.IsPaid)
	require.Len(t, summary.Products, 2)

	assert.Equal(t, "Widget", summary.Products[0].ProductName)
	assert.Equal(t, "10.00", summary.Products[0].UnitPrice)
	assert.Equal(t, "0.25", summary.Products[0].Discount)
	assert.Equal(t, "15.00", summary.Products[0].TotalPrice)

	// the discount flag is off, so the stored fraction is ignored
	assert.Equal(t, "0.00", summary.Products[1].Discount)
	assert.Equal(t, "5.00", summary.Products[1].TotalPrice)

	assert.Equal(t, "20.00", summary.TotalPrice)
}

func TestBuildSummaryRoundsEachLine(t *testing.T) {
	order := &models.Order{Items: []models.OrderItem{
		orderItem("A", "0.15", 1, true, "0.50"), // 0.075 -> 0.08
		orderItem("B", "0.25", 1, true, "0.50"), // 0.125 -> 0.12
	}}

	summary, err := BuildSummary(order)
	require.NoError(t, err)
	assert.Equal(t, "0.08", summary.Products[0].TotalPrice)
	assert.Equal(t, "0.12", summary.Products[1].TotalPrice)
	assert.Equal(t, "0.20", summary.TotalPrice)
}

func TestBuildSummaryEmptyOrder(t *testing.T) {
	summary, err := BuildSummary(&models.Order{})
	require.NoError(t, err)
	assert.Empty(t, summary.Products)
	assert.Equal(t, "0.00", summary.TotalPrice)
}

func TestBuildSummaryInvalidItem(t *testing.T) {
	order := &models.Order{Items: []models.OrderItem{orderItem("A", "1.00", 1, true, "1.50")}}

	_, err := BuildSummary(order)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeInvalidDiscount, codeOf(err))

	order = &models.Order{Items: []models.OrderItem{orderItem("A", "1.00", 0, false, "0")}}
	_, err = BuildSummary(order)
	assert.Equal(t, CodeInvalidQuantity, codeOf(err))
}

func TestBuildSummaryNeedsLoadedProducts(t *testing.T) {
	item := orderItem("A", "1.00", 1, false, "0")
	item.Product = nil

	_, err := BuildSummary(&models.Order{Items: []models.OrderItem{item}})
	assert.ErrorIs(t, err, models.ErrProductNotLoaded)
}

func TestProductView(t *testing.T) {
	p := newTestProduct("Acme", "Widget")
	p.Price = decimal.RequireFromString("12.5")
	p.Images = []models.ProductImage{{URL: "https://cdn.test/a.png"}}

	v := NewProductView(p)
	assert.Equal(t, "Acme", v.Brand)
	assert.Nil(t, v.Category)
	assert.Equal(t, "12.50", v.Price)
	assert.Equal(t, "Acme/"+p.ID.String(), v.AbsoluteURL)
	require.Len(t, v.Images, 1)
	assert.Equal(t, "https://cdn.test/a.png", v.Images[0].URL)

	p.Category = &models.Category{Name: "Tools"}
	v = NewProductView(p)
	require.NotNil(t, v.Category)
	assert.Equal(t, "Tools", *v.Category)
}
