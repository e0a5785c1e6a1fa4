// internal/services/purge_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-backend/internal/models"
)

// PurgeService wipes the catalog and every order. Users are kept.
type PurgeService struct {
	db    *gorm.DB
	store ObjectStore
}

type PurgeResult struct {
	BrandsScanned  int      `json:"brands_scanned"`
	ObjectsDeleted int      `json:"objects_deleted"`
	StorageErrors  int      `json:"storage_errors"`
	TablesPurged   []string `json:"tables_purged"`
}

func NewPurgeService(db *gorm.DB, store ObjectStore) *PurgeService {
	return &PurgeService{db: db, store: store}
}

// PurgeAll removes stored images brand by brand, then truncates the catalog
// and order tables. Storage failures are logged and do not stop the purge.
func (s *PurgeService) PurgeAll(ctx context.Context) (*PurgeResult, error) {
	result := &PurgeResult{TablesPurged: models.CatalogTables}

	var brands []string
	if err := s.db.WithContext(ctx).Unscoped().Model(&models.Brand{}).Pluck("name", &brands).Error; err != nil {
		logrus.WithError(err).Warn("Failed to list brands, skipping image cleanup")
	}
	result.BrandsScanned = len(brands)

	for _, brand := range brands {
		n, err := s.store.DeletePrefix(ctx, BrandPrefix(brand))
		result.ObjectsDeleted += n
		if err != nil {
			result.StorageErrors++
			logrus.WithError(err).WithField("brand", brand).Warn("Failed to delete stored images")
		}
	}

	if err := s.db.WithContext(ctx).Exec(truncateStatement(models.CatalogTables)).Error; err != nil {
		return nil, dbError(err, nil)
	}

	logrus.WithFields(logrus.Fields{
		"brands":         result.BrandsScanned,
		"objects":        result.ObjectsDeleted,
		"storage_errors": result.StorageErrors,
	}).Warn("Catalog purged")

	return result, nil
}

func truncateStatement(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = pq.QuoteIdentifier(t)
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
}
