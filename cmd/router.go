package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shoe-catalog-service/internal/clients"
	"shoe-catalog-service/internal/config"
	"shoe-catalog-service/internal/events"
	"shoe-catalog-service/internal/handlers"
	"shoe-catalog-service/internal/middleware"
)

// setupRouter registers every route. It never touches the store, so the
// router can be built while the database is unreachable.
func setupRouter(cfg *config.Config, logger *logrus.Logger, store handlers.CatalogStore, schema handlers.SchemaChecker, eventsPublisher *events.Publisher) *gin.Engine {
	productsHandler := handlers.NewProductsHandler(store, eventsPublisher, cfg.FallbackEnabled)
	collectionsHandler := handlers.NewCollectionsHandler(store, eventsPublisher)
	exportHandler := handlers.NewExportHandler(store)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(store, schema)

	metrics := middleware.NewMetrics("shoe_catalog", "api")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", diagnosticsHandler.ReadinessCheck)
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	if cfg.UsesDevelopmentAuth() {
		api.Use(middleware.DevelopmentAuthMiddleware())
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	}

	products := api.Group("/products")
	{
		products.GET("", productsHandler.GetProducts)
		products.POST("", productsHandler.CreateProduct)
		products.GET("/export", exportHandler.ExportProducts)
		products.GET("/:id", productsHandler.GetProduct)
		products.PUT("/:id", productsHandler.UpdateProduct)
		products.DELETE("/:id", productsHandler.DeleteProduct)

		products.GET("/:id/variants", productsHandler.GetVariants)
		products.POST("/:id/variants", productsHandler.CreateVariant)
		products.PUT("/:id/variants/:variantId", productsHandler.UpdateVariant)
		products.DELETE("/:id/variants/:variantId", productsHandler.DeleteVariant)

		products.GET("/:id/images", productsHandler.GetImages)
		products.POST("/:id/images", productsHandler.AddImage)
		products.PUT("/:id/images/:imageId", productsHandler.UpdateImage)
		products.DELETE("/:id/images/:imageId", productsHandler.DeleteImage)

		products.POST("/:id/collections/:collectionId", productsHandler.AddToCollection)
		products.DELETE("/:id/collections/:collectionId", productsHandler.RemoveFromCollection)
	}

	collections := api.Group("/collections")
	{
		collections.GET("", collectionsHandler.GetCollections)
		collections.POST("", collectionsHandler.CreateCollection)
		collections.GET("/:id", collectionsHandler.GetCollection)
		collections.PUT("/:id", collectionsHandler.UpdateCollection)
		collections.DELETE("/:id", collectionsHandler.DeleteCollection)
	}

	api.GET("/size-charts", collectionsHandler.GetSizeCharts)
	api.GET("/size-charts/:brand", collectionsHandler.GetSizeChart)
	api.GET("/diagnostics/db", diagnosticsHandler.DatabaseDiagnostics)

	// Platform Admin API proxy
	if cfg.ShopDomain != "" && cfg.ShopAccessToken != "" {
		shopHandler := handlers.NewShopHandler(clients.NewAdminClient(cfg.ShopDomain, cfg.ShopAccessToken, cfg.ShopAPIVersion))
		shop := api.Group("/shop")
		{
			shop.GET("/products", shopHandler.ListProducts)
			shop.POST("/products", shopHandler.CreateProduct)
			shop.GET("/products/:id", shopHandler.GetProduct)
			shop.PUT("/products/:id", shopHandler.UpdateProduct)
			shop.DELETE("/products/:id", shopHandler.DeleteProduct)
			shop.GET("/collections", shopHandler.ListCollections)
		}
		logger.WithField("shop", cfg.ShopDomain).Info("✓ Platform proxy routes registered")
	} else {
		logger.Info("SHOP_DOMAIN or SHOP_ACCESS_TOKEN not set, platform proxy disabled")
	}

	return router
}
