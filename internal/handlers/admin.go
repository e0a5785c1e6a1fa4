// internal/handlers/admin.go
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

type DashboardStatsProvider interface {
	GetDashboardStats(ctx context.Context) (*services.AdminDashboardStats, error)
}

// TaxonomyManager covers brand and category maintenance.
type TaxonomyManager interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	CreateBrand(ctx context.Context, req *services.BrandRequest) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req *services.BrandRequest) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, req *services.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, req *services.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type AdminHandler struct {
	stats    DashboardStatsProvider
	taxonomy TaxonomyManager
}

func NewAdminHandler(stats DashboardStatsProvider, taxonomy TaxonomyManager) *AdminHandler {
	return &AdminHandler{
		stats:    stats,
		taxonomy: taxonomy,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.stats.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/brands
func (h *AdminHandler) ListBrands(c *gin.Context) {
	brands, err := h.taxonomy.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, brands)
}

// GET /admin/brands/:id
func (h *AdminHandler) GetBrand(c *gin.Context) {
	id, ok := uuidParam(c, "id", "brand")
	if !ok {
		return
	}

	brand, err := h.taxonomy.GetBrand(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, brand)
}

// POST /admin/brands
func (h *AdminHandler) CreateBrand(c *gin.Context) {
	var req services.BrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := h.taxonomy.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, brand, i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated, "Brand"))
}

// PUT /admin/brands/:id
func (h *AdminHandler) UpdateBrand(c *gin.Context) {
	id, ok := uuidParam(c, "id", "brand")
	if !ok {
		return
	}

	var req services.BrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := h.taxonomy.UpdateBrand(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, brand, i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated, "Brand"))
}

// DELETE /admin/brands/:id
func (h *AdminHandler) DeleteBrand(c *gin.Context) {
	id, ok := uuidParam(c, "id", "brand")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteBrand(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GET /admin/categories
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomy.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}

// GET /admin/categories/:id
func (h *AdminHandler) GetCategory(c *gin.Context) {
	id, ok := uintParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.taxonomy.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.taxonomy.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, category, i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated, "Category"))
}

// PUT /admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := uintParam(c, "id", "category")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.taxonomy.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, category, i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated, "Category"))
}

// DELETE /admin/categories/:id
// Products in the category are kept and left uncategorized.
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := uintParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
