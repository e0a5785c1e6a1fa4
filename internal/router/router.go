// internal/router/router.go
package router

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-backend/internal/config"
	"github.com/javajoker/storefront-backend/internal/handlers"
	"github.com/javajoker/storefront-backend/internal/middleware"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

const version = "1.0.0"

// Initialize builds the HTTP engine. The returned stop function releases the
// rate limiters' background cleanup and must be called on shutdown.
func Initialize(db *gorm.DB, store services.ObjectStore, cfg *config.Config) (*gin.Engine, func()) {
	// Initialize services
	catalogService := services.NewCatalogService(db, store)
	ingestService := services.NewIngestService(db)
	mediaService := services.NewMediaService(catalogService, store, cfg.Media)
	purgeService := services.NewPurgeService(db, store)
	accountService := services.NewAccountService(db)
	orderService := services.NewOrderService(db)
	adminService := services.NewAdminService(db)

	tokens := utils.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(catalogService, ingestService, mediaService, purgeService, cfg.Media.MaxUploadSize)
	authHandler := handlers.NewAuthHandler(accountService, tokens)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(accountService)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService)

	generalLimit := middleware.PerSecond(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst)
	authLimit := middleware.PerMinute(cfg.RateLimit.AuthPerMinute)
	uploadLimit := middleware.PerMinute(cfg.RateLimit.UploadPerMinute)
	stop := func() {
		generalLimit.Stop()
		authLimit.Stop()
		uploadLimit.Stop()
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimit.Middleware())

	// Multipart bodies beyond this stay on disk instead of in memory.
	r.MaxMultipartMemory = cfg.Media.MaxUploadSize

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	// Storefront routes
	r.GET("/get_all/", productHandler.GetAll)
	r.POST("/insert_product/", productHandler.InsertProducts)
	r.GET("/delete_all/", productHandler.DeleteAll)
	r.GET("/products/:brand_name/:product_id/", productHandler.GetBrandProduct)
	r.POST("/upload_img/", uploadLimit.Middleware(), productHandler.UploadImage)
	r.GET("/get_user_details/", authLimit.Middleware(), authHandler.GetUserDetails)
	r.GET("/all_orders/", orderHandler.GetAllOrders)
	r.GET("/get_order/:order_id/", orderHandler.GetOrder)

	r.GET("/me", middleware.AuthRequired(tokens), userHandler.GetProfile)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(tokens), middleware.AdminRequired(cfg.IsAdmin))
	{
		admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

		brands := admin.Group("/brands")
		{
			brands.GET("", adminHandler.ListBrands)
			brands.POST("", adminHandler.CreateBrand)
			brands.GET("/:id", adminHandler.GetBrand)
			brands.PUT("/:id", adminHandler.UpdateBrand)
			brands.DELETE("/:id", adminHandler.DeleteBrand)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("", adminHandler.ListCategories)
			categories.POST("", adminHandler.CreateCategory)
			categories.GET("/:id", adminHandler.GetCategory)
			categories.PUT("/:id", adminHandler.UpdateCategory)
			categories.DELETE("/:id", adminHandler.DeleteCategory)
		}

		products := admin.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.GET("/:id/images", productHandler.ListImages)
		}

		admin.DELETE("/images/:id", productHandler.DeleteImage)

		users := admin.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id_number", userHandler.GetUser)
			users.PUT("/:id_number", userHandler.UpdateUser)
			users.DELETE("/:id_number", userHandler.DeleteUser)
		}

		orders := admin.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.PUT("/:order_id", orderHandler.UpdateOrder)
			orders.DELETE("/:order_id", orderHandler.DeleteOrder)
		}
	}

	// Images kept on local disk are served by the API itself.
	if local, ok := store.(*services.LocalStore); ok {
		r.Static(uploadsPath(cfg.Storage.LocalBaseURL), local.Dir())
	}

	return r, stop
}

// uploadsPath is the route under which local images are served, taken from
// the path of the public base URL.
func uploadsPath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/uploads"
	}
	return u.Path
}
