// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-backend/internal/database"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type CatalogService struct {
	db    *gorm.DB
	store ObjectStore
}

type BrandRequest struct {
	Name string `json:"name" validate:"required,max=256"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateProductRequest struct {
	BrandID    uuid.UUID       `json:"brand_id" validate:"required"`
	CategoryID *uint           `json:"category_id,omitempty"`
	Name       string          `json:"name" validate:"required,max=256"`
	Price      decimal.Decimal `json:"price" validate:"min=0"`
	Quantity   int             `json:"quantity" validate:"min=0"`
}

type UpdateProductRequest struct {
	BrandID       *uuid.UUID       `json:"brand_id,omitempty"`
	CategoryID    *uint            `json:"category_id,omitempty"`
	ClearCategory bool             `json:"clear_category,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Price         *decimal.Decimal `json:"price,omitempty" validate:"omitempty,min=0"`
	Quantity      *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

func NewCatalogService(db *gorm.DB, store ObjectStore) *CatalogService {
	return &CatalogService{db: db, store: store}
}

func validate(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return &Error{
			Kind:    ErrValidation,
			Code:    CodeInvalidInput,
			Message: "validation failed",
			Details: utils.GetValidationErrors(err),
			Err:     err,
		}
	}
	return nil
}

func productQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Brand").Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
}

// Products

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := productQuery(s.db.WithContext(ctx)).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := productQuery(s.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeProductNotFound, "product not found"))
	}
	return &product, nil
}

// GetBrandProduct looks a product up by id and requires it to belong to the
// named brand.
func (s *CatalogService) GetBrandProduct(ctx context.Context, brandName string, id uuid.UUID) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Brand == nil || product.Brand.Name != brandName {
		return nil, notFoundError(CodeProductNotFound, "product not found")
	}
	return product, nil
}

// FindProductByName resolves a product by exact name. brandName narrows the
// match and is required when several brands carry the same product name.
func (s *CatalogService) FindProductByName(ctx context.Context, name, brandName string) (*models.Product, error) {
	query := s.db.WithContext(ctx).Preload("Brand").Where("products.name = ?", name)
	if brandName != "" {
		query = query.Joins("JOIN brands ON brands.id = products.brand_id AND brands.deleted_at IS NULL").
			Where("brands.name = ?", brandName)
	}

	var products []models.Product
	if err := query.Limit(2).Find(&products).Error; err != nil {
		return nil, dbError(err, nil)
	}

	switch len(products) {
	case 0:
		return nil, notFoundError(CodeProductNotFound, "product not found")
	case 1:
		return &products[0], nil
	default:
		return nil, conflictError(CodeAmbiguousProduct,
			"several brands carry a product with this name, specify the brand", nil)
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		BrandID:    req.BrandID,
		CategoryID: req.CategoryID,
		Name:       strings.TrimSpace(req.Name),
		Price:      req.Price.Round(2),
		Quantity:   req.Quantity,
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.checkReferences(tx, &product.BrandID, product.CategoryID); err != nil {
			return err
		}
		return tx.Create(product).Error
	})
	if err != nil {
		return nil, productWriteError(err)
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return dbError(err, notFoundError(CodeProductNotFound, "product not found"))
		}

		if err := s.checkReferences(tx, req.BrandID, req.CategoryID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.BrandID != nil {
			updates["brand_id"] = *req.BrandID
		}
		if req.ClearCategory {
			updates["category_id"] = nil
		} else if req.CategoryID != nil {
			updates["category_id"] = *req.CategoryID
		}
		if req.Name != nil {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			updates["price"] = req.Price.Round(2)
		}
		if req.Quantity != nil {
			updates["quantity"] = *req.Quantity
		}
		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&product).Updates(updates).Error
	})
	if err != nil {
		return nil, productWriteError(err)
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct soft-deletes the product. Its images and order lines are
// removed for good, along with the stored image objects.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var images []models.ProductImage

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return dbError(err, notFoundError(CodeProductNotFound, "product not found"))
		}

		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return dbError(err, nil)
	}

	for _, img := range images {
		s.deleteObject(ctx, img.StorageKey)
	}
	return nil
}

// checkReferences verifies that the brand and category exist.
func (s *CatalogService) checkReferences(tx *gorm.DB, brandID *uuid.UUID, categoryID *uint) error {
	if brandID != nil {
		if err := tx.Select("id").First(&models.Brand{}, "id = ?", *brandID).Error; err != nil {
			return dbError(err, notFoundError(CodeBrandNotFound, "brand not found"))
		}
	}
	if categoryID != nil {
		if err := tx.Select("id").First(&models.Category{}, *categoryID).Error; err != nil {
			return dbError(err, notFoundError(CodeCategoryNotFound, "category not found"))
		}
	}
	return nil
}

func productWriteError(err error) error {
	err = dbError(err, nil)
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Code == CodeAlreadyExists {
		return conflictError(CodeDuplicateProduct, "brand already has a product with this name", nil)
	}
	return err
}

// Product images

func (s *CatalogService) AddProductImage(ctx context.Context, img *models.ProductImage) error {
	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		return dbError(err, nil)
	}
	return nil
}

func (s *CatalogService) ListProductImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	var images []models.ProductImage
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&images).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return images, nil
}

func (s *CatalogService) DeleteProductImage(ctx context.Context, id uuid.UUID) error {
	var img models.ProductImage
	if err := s.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return dbError(err, notFoundError(CodeImageNotFound, "image not found"))
	}
	if err := s.db.WithContext(ctx).Delete(&img).Error; err != nil {
		return dbError(err, nil)
	}

	s.deleteObject(ctx, img.StorageKey)
	return nil
}

func (s *CatalogService) deleteObject(ctx context.Context, key string) {
	if key == "" || s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored image")
	}
}

// Brands

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := s.db.WithContext(ctx).Order("name").Find(&brands).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return brands, nil
}

func (s *CatalogService) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeBrandNotFound, "brand not found"))
	}
	return &brand, nil
}

// CreateBrand inserts a brand, reviving a soft-deleted one of the same name.
func (s *CatalogService) CreateBrand(ctx context.Context, req *BrandRequest) (*models.Brand, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	var brand models.Brand
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		err := tx.Unscoped().Where("name = ?", name).First(&brand).Error
		switch {
		case err == nil && brand.DeletedAt.Valid:
			return tx.Unscoped().Model(&brand).Update("deleted_at", nil).Error
		case err == nil:
			return conflictError(CodeAlreadyExists, "brand already exists", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			brand = models.Brand{Name: name}
			return tx.Create(&brand).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, dbError(err, nil)
	}

	brand.DeletedAt = gorm.DeletedAt{}
	return &brand, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req *BrandRequest) (*models.Brand, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.db.WithContext(ctx).Model(brand).Update("name", name).Error; err != nil {
		return nil, dbError(err, nil)
	}
	brand.Name = name
	return brand, nil
}

// DeleteBrand soft-deletes a brand. A brand that still has live products
// cannot be deleted.
func (s *CatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var brand models.Brand
		if err := tx.First(&brand, "id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflictError(CodeBrandInUse, "brand still has products", map[string]int64{"products": count})
		}

		return tx.Delete(&brand).Error
	})
	return dbError(err, notFoundError(CodeBrandNotFound, "brand not found"))
}

// Categories

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeCategoryNotFound, "category not found"))
	}
	return &category, nil
}

// CreateCategory inserts a category, reviving a soft-deleted one of the same
// name.
func (s *CatalogService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	var category models.Category
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		err := tx.Unscoped().Where("name = ?", name).First(&category).Error
		switch {
		case err == nil && category.DeletedAt.Valid:
			return tx.Unscoped().Model(&category).Update("deleted_at", nil).Error
		case err == nil:
			return conflictError(CodeAlreadyExists, "category already exists", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			category = models.Category{Name: name}
			return tx.Create(&category).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, dbError(err, nil)
	}

	category.DeletedAt = gorm.DeletedAt{}
	return &category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req *CategoryRequest) (*models.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.db.WithContext(ctx).Model(category).Update("name", name).Error; err != nil {
		return nil, dbError(err, nil)
	}
	category.Name = name
	return category, nil
}

// DeleteCategory soft-deletes a category and detaches its products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
	return dbError(err, notFoundError(CodeCategoryNotFound, "category not found"))
}
