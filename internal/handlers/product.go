// internal/handlers/product.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBrandProduct(ctx context.Context, brandName string, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *services.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProductImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error)
	DeleteProductImage(ctx context.Context, id uuid.UUID) error
}

type ProductIngester interface {
	Ingest(ctx context.Context, req *services.IngestRequest) (*services.IngestResult, error)
}

type ImageUploader interface {
	UploadProductImage(ctx context.Context, req *services.UploadImageRequest) (*models.ProductImage, error)
}

type CatalogPurger interface {
	PurgeAll(ctx context.Context) (*services.PurgeResult, error)
}

type ProductHandler struct {
	catalog       ProductCatalog
	ingester      ProductIngester
	uploader      ImageUploader
	purger        CatalogPurger
	maxUploadSize int64
}

func NewProductHandler(catalog ProductCatalog, ingester ProductIngester, uploader ImageUploader, purger CatalogPurger, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{
		catalog:       catalog,
		ingester:      ingester,
		uploader:      uploader,
		purger:        purger,
		maxUploadSize: maxUploadSize,
	}
}

// GET /get_all/
func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewProductViews(products))
}

// GET /products/:brand_name/:product_id/
func (h *ProductHandler) GetBrandProduct(c *gin.Context) {
	id, ok := uuidParam(c, "product_id", "product")
	if !ok {
		return
	}

	product, err := h.catalog.GetBrandProduct(c.Request.Context(), c.Param("brand_name"), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewProductView(product))
}

// POST /insert_product/
func (h *ProductHandler) InsertProducts(c *gin.Context) {
	var req services.IngestRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.ingester.Ingest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result, i18n.T(utils.GetLangFromContext(c), i18n.KeyProductsInserted))
}

// POST /upload_img/
// Multipart form: "image" file, "product" name and an optional "brand" to
// pick between products sharing a name.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productName := strings.TrimSpace(c.PostForm("product"))
	if productName == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "product"), nil)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageRequired), nil)
		return
	}
	// The service enforces the limit on the bytes actually read as well.
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		utils.ErrorResponse(c, http.StatusBadRequest, services.CodeImageTooLarge,
			i18n.T(lang, i18n.KeyImageTooLarge, h.maxUploadSize), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	image, err := h.uploader.UploadProductImage(c.Request.Context(), &services.UploadImageRequest{
		ProductName: productName,
		BrandName:   c.PostForm("brand"),
		Data:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"id":         image.ID,
		"product_id": image.ProductID,
		"url":        image.URL,
	}, i18n.T(lang, i18n.KeyImageUploaded))
}

// GET /delete_all/
func (h *ProductHandler) DeleteAll(c *gin.Context) {
	result, err := h.purger.PurgeAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, result, i18n.T(utils.GetLangFromContext(c), i18n.KeyCatalogPurged))
}

// GET /admin/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewProductView(product))
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, services.NewProductView(product),
		i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated, "Product"))
}

// PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, services.NewProductView(product),
		i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated, "Product"))
}

// DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, nil, i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted, "Product"))
}

// GET /admin/products/:id/images
func (h *ProductHandler) ListImages(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	images, err := h.catalog.ListProductImages(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]services.ImageView, len(images))
	for i, img := range images {
		views[i] = services.ImageView{ID: img.ID, URL: img.URL}
	}
	utils.SuccessResponse(c, views)
}

// DELETE /admin/images/:id
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, ok := uuidParam(c, "id", "image")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProductImage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
