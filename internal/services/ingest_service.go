// internal/services/ingest_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/storefront-backend/internal/database"
	"github.com/javajoker/storefront-backend/internal/models"
)

const ingestBatchSize = 500

// IngestService bulk-loads products, resolving brands and categories by name.
type IngestService struct {
	db *gorm.DB
}

// ProductRecord is one product of an ingestion payload.
type ProductRecord struct {
	Name     string          `json:"name" validate:"required,max=256"`
	Brand    string          `json:"brand" validate:"required,max=256"`
	Category string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

type IngestRequest struct {
	Products []ProductRecord `json:"products" validate:"required,min=1,dive"`
}

// UnmarshalJSON accepts either a bare array of records or an object with a
// "products" array.
func (r *IngestRequest) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Products)
	}
	type plain IngestRequest
	return json.Unmarshal(data, (*plain)(r))
}

type IngestResult struct {
	TotalInserted      int `json:"total_inserted"`
	BrandsResolved     int `json:"brands_resolved"`
	CategoriesResolved int `json:"categories_resolved"`
}

// DuplicateProducts is the detail of a DUPLICATE_PRODUCT conflict. Duplicates
// lists repeated records when the payload itself is at fault.
type DuplicateProducts struct {
	Attempted  int               `json:"attempted"`
	Duplicates []DuplicateDetail `json:"duplicates,omitempty"`
}

type DuplicateDetail struct {
	Index int    `json:"index"`
	Brand string `json:"brand"`
	Name  string `json:"name"`
}

func NewIngestService(db *gorm.DB) *IngestService {
	return &IngestService{db: db}
}

// Ingest inserts every record or none of them.
func (s *IngestService) Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	normalizeRecords(req.Products)
	if err := validate(req); err != nil {
		return nil, err
	}
	if dups := findDuplicates(req.Products); len(dups) > 0 {
		return nil, conflictError(CodeDuplicateProduct, "payload repeats a product of the same brand",
			&DuplicateProducts{Attempted: len(req.Products), Duplicates: dups})
	}

	brandNames, categoryNames := distinctNames(req.Products)
	result := &IngestResult{
		TotalInserted:      len(req.Products),
		BrandsResolved:     len(brandNames),
		CategoriesResolved: len(categoryNames),
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		brandIDs, err := upsertBrands(tx, brandNames)
		if err != nil {
			return err
		}
		categoryIDs, err := upsertCategories(tx, categoryNames)
		if err != nil {
			return err
		}

		products := make([]models.Product, len(req.Products))
		for i, rec := range req.Products {
			products[i] = models.Product{
				BrandID:  brandIDs[rec.Brand],
				Name:     rec.Name,
				Price:    rec.Price.Round(2),
				Quantity: rec.Quantity,
			}
			if rec.Category != "" {
				id := categoryIDs[rec.Category]
				products[i].CategoryID = &id
			}
		}

		return tx.Omit(clause.Associations).CreateInBatches(&products, ingestBatchSize).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			dupErr := newError(ErrConflict, CodeDuplicateProduct,
				"one or more products already exist for their brand", err)
			dupErr.Details = &DuplicateProducts{Attempted: len(req.Products)}
			return nil, dupErr
		}
		return nil, dbError(err, nil)
	}

	logrus.WithFields(logrus.Fields{
		"products":   result.TotalInserted,
		"brands":     result.BrandsResolved,
		"categories": result.CategoriesResolved,
	}).Info("Catalog ingested")

	return result, nil
}

func normalizeRecords(records []ProductRecord) {
	for i := range records {
		records[i].Name = strings.TrimSpace(records[i].Name)
		records[i].Brand = strings.TrimSpace(records[i].Brand)
		records[i].Category = strings.TrimSpace(records[i].Category)
	}
}

// findDuplicates reports every record whose (brand, name) pair already
// appeared earlier in the payload.
func findDuplicates(records []ProductRecord) []DuplicateDetail {
	type key struct{ brand, name string }
	seen := make(map[key]struct{}, len(records))

	var dups []DuplicateDetail
	for i, rec := range records {
		k := key{rec.Brand, rec.Name}
		if _, ok := seen[k]; ok {
			dups = append(dups, DuplicateDetail{Index: i, Brand: rec.Brand, Name: rec.Name})
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

func distinctNames(records []ProductRecord) (brands, categories []string) {
	brandSet := map[string]struct{}{}
	categorySet := map[string]struct{}{}
	for _, rec := range records {
		brandSet[rec.Brand] = struct{}{}
		if rec.Category != "" {
			categorySet[rec.Category] = struct{}{}
		}
	}
	return sortedKeys(brandSet), sortedKeys(categorySet)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// upsertOnName inserts missing names and revives soft-deleted ones.
var upsertOnName = clause.OnConflict{
	Columns:   []clause.Column{{Name: "name"}},
	DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": nil}),
}

func upsertBrands(tx *gorm.DB, names []string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	rows := make([]models.Brand, len(names))
	for i, name := range names {
		rows[i] = models.Brand{Name: name}
	}
	if err := tx.Clauses(upsertOnName).Create(&rows).Error; err != nil {
		return nil, err
	}

	var brands []models.Brand
	if err := tx.Where("name IN ?", names).Find(&brands).Error; err != nil {
		return nil, err
	}
	for _, b := range brands {
		ids[b.Name] = b.ID
	}
	return ids, nil
}

func upsertCategories(tx *gorm.DB, names []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	rows := make([]models.Category, len(names))
	for i, name := range names {
		rows[i] = models.Category{Name: name}
	}
	if err := tx.Clauses(upsertOnName).Create(&rows).Error; err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := tx.Where("name IN ?", names).Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, c := range categories {
		ids[c.Name] = c.ID
	}
	return ids, nil
}
