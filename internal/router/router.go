// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/rentalworks/catalog-backend/internal/cache"
	"github.com/rentalworks/catalog-backend/internal/config"
	"github.com/rentalworks/catalog-backend/internal/handlers"
	"github.com/rentalworks/catalog-backend/internal/middleware"
	"github.com/rentalworks/catalog-backend/internal/services"
)

func Initialize(db *gorm.DB, store cache.Store, cfg *config.Config) *gin.Engine {
	// Initialize services
	productService := services.NewProductService(db, store, cfg.Cache.TTL)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	cacheHandler := handlers.NewCacheHandler(productService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/cheapest", productHandler.GetCheapestProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Region routes
		v1.GET("/regions/:code/products", productHandler.GetProductsByRegion)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminRateLimit(), middleware.AdminTokenRequired(cfg.Admin.Token))
		{
			admin.DELETE("/cache/products", cacheHandler.InvalidateListings)
			admin.DELETE("/cache/products/:id", cacheHandler.InvalidateProduct)
		}
	}

	return r
}
