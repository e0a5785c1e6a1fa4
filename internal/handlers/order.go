// internal/handlers/order.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type OrderManager interface {
	Summaries(ctx context.Context) ([]services.OrderSummary, error)
	Summary(ctx context.Context, id uuid.UUID) (*services.OrderSummary, error)
	CreateOrder(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req *services.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type OrderHandler struct {
	orders OrderManager
}

func NewOrderHandler(orders OrderManager) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GET /all_orders/
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	summaries, err := h.orders.Summaries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summaries)
}

// GET /get_order/:order_id/
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := uuidParam(c, "order_id", "order")
	if !ok {
		return
	}

	summary, err := h.orders.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// POST /admin/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := services.BuildSummary(order)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, summary, i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated, "Order"))
}

// PUT /admin/orders/:order_id
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := uuidParam(c, "order_id", "order")
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := services.BuildSummary(order)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, summary, i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated, "Order"))
}

// DELETE /admin/orders/:order_id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := uuidParam(c, "order_id", "order")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
