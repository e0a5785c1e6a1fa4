// internal/services/admin_service.go
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/pricing"
)

// AdminService aggregates store-wide figures for the admin dashboard.
type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalBrands        int64  `json:"total_brands"`
	TotalCategories    int64  `json:"total_categories"`
	TotalProducts      int64  `json:"total_products"`
	OutOfStockProducts int64  `json:"out_of_stock_products"`
	TotalUsers         int64  `json:"total_users"`
	NewUsersThisMonth  int64  `json:"new_users_this_month"`
	TotalOrders        int64  `json:"total_orders"`
	PendingDelivery    int64  `json:"pending_delivery"`
	CancelledOrders    int64  `json:"cancelled_orders"`
	TotalRevenue       string `json:"total_revenue"`
	MonthlyRevenue     string `json:"monthly_revenue"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.Brand{}), &stats.TotalBrands},
		{db.Model(&models.Category{}), &stats.TotalCategories},
		{db.Model(&models.Product{}), &stats.TotalProducts},
		{db.Model(&models.Product{}).Where("quantity = 0"), &stats.OutOfStockProducts},
		{db.Model(&models.User{}), &stats.TotalUsers},
		{db.Model(&models.User{}).Where("created_at >= ?", monthStart), &stats.NewUsersThisMonth},
		{db.Model(&models.Order{}), &stats.TotalOrders},
		{db.Model(&models.Order{}).Where("is_paid AND NOT is_delivered AND NOT is_cancelled"), &stats.PendingDelivery},
		{db.Model(&models.Order{}).Where("is_cancelled"), &stats.CancelledOrders},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, dbError(err, nil)
		}
	}

	// Revenue is priced line by line, same as order summaries.
	var paid []models.Order
	if err := orderQuery(db).Where("is_paid AND NOT is_cancelled").Find(&paid).Error; err != nil {
		return nil, dbError(err, nil)
	}

	total, monthly := decimal.Zero, decimal.Zero
	for i := range paid {
		items := make([]pricing.LineItem, len(paid[i].Items))
		for j := range paid[i].Items {
			line, err := paid[i].Items[j].LineItem()
			if err != nil {
				return nil, err
			}
			items[j] = line
		}
		orderTotal, err := pricing.OrderTotal(items)
		if err != nil {
			return nil, pricingError(err)
		}
		total = total.Add(orderTotal)
		if !paid[i].CreatedAt.Before(monthStart) {
			monthly = monthly.Add(orderTotal)
		}
	}
	stats.TotalRevenue = total.StringFixed(2)
	stats.MonthlyRevenue = monthly.StringFixed(2)

	return stats, nil
}
