// internal/services/media_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/config"
	"github.com/javajoker/storefront-backend/internal/models"
)

// ProductImageCatalog is the part of the catalog the media relay needs.
type ProductImageCatalog interface {
	FindProductByName(ctx context.Context, name, brandName string) (*models.Product, error)
	AddProductImage(ctx context.Context, img *models.ProductImage) error
}

// MediaService relays uploaded product images to the object store.
type MediaService struct {
	catalog   ProductImageCatalog
	store     ObjectStore
	maxSize   int64
	maxPixels int64
}

type UploadImageRequest struct {
	ProductName string
	BrandName   string
	Data        io.Reader
}

func NewMediaService(catalog ProductImageCatalog, store ObjectStore, cfg config.MediaConfig) *MediaService {
	return &MediaService{
		catalog:   catalog,
		store:     store,
		maxSize:   cfg.MaxUploadSize,
		maxPixels: cfg.MaxPixels,
	}
}

// UploadProductImage normalizes the image to PNG, stores it under
// "{brand}/{product_id}/{random}.png" and records its public URL.
func (s *MediaService) UploadProductImage(ctx context.Context, req *UploadImageRequest) (*models.ProductImage, error) {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return nil, validationError(CodeInvalidInput, "product name is required", nil)
	}
	if req.Data == nil {
		return nil, validationError(CodeInvalidImage, "image is required", nil)
	}

	product, err := s.catalog.FindProductByName(ctx, name, strings.TrimSpace(req.BrandName))
	if err != nil {
		return nil, err
	}

	data, err := s.readLimited(req.Data)
	if err != nil {
		return nil, err
	}

	body, format, err := NormalizeImage(data, s.maxPixels)
	if errors.Is(err, ErrTooManyPixels) {
		return nil, newError(ErrValidation, CodeImageTooLarge,
			fmt.Sprintf("image exceeds the maximum of %d pixels", s.maxPixels), err)
	}
	if err != nil {
		return nil, newError(ErrValidation, CodeInvalidImage, "unsupported or corrupt image", err)
	}

	brandName := ""
	if product.Brand != nil {
		brandName = product.Brand.Name
	}
	key := ImageKey(brandName, product.ID)

	url, err := s.store.Put(ctx, key, ImageContentType, body)
	if err != nil {
		return nil, newError(ErrUpstream, CodeUploadFailed, "failed to upload image", err)
	}

	img := &models.ProductImage{ProductID: product.ID, URL: url, StorageKey: key}
	if err := s.catalog.AddProductImage(ctx, img); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logrus.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned image")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"key":        key,
		"source":     format,
		"bytes":      len(body),
	}).Info("Product image uploaded")

	return img, nil
}

// readLimited buffers the body and rejects it when larger than maxSize.
func (s *MediaService) readLimited(r io.Reader) ([]byte, error) {
	if s.maxSize > 0 {
		r = io.LimitReader(r, s.maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(ErrValidation, CodeInvalidImage, "failed to read image", err)
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, validationError(CodeImageTooLarge,
			fmt.Sprintf("image exceeds the maximum upload size of %d bytes", s.maxSize), nil)
	}
	return data, nil
}
