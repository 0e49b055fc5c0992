package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/config"
	"github.com/sellio/sellio-backend/internal/app/controller"
	"github.com/sellio/sellio-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	categoryController *controller.CategoryController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	addressController  *controller.AddressController
	sellerController   *controller.SellerController
	adminController    *controller.AdminController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	addressController *controller.AddressController,
	sellerController *controller.SellerController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		categoryController: categoryController,
		cartController:     cartController,
		orderController:    orderController,
		addressController:  addressController,
		sellerController:   sellerController,
		adminController:    adminController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SELLIO API is running",
		})
	})

	// Locally stored product images are served as static files
	if r.config.Upload.Driver == "local" {
		router.Static(r.config.Upload.LocalBaseURL, r.config.Upload.LocalDir)
	}

	// Login and registration get a tighter rate limit than the rest of
	// the API to slow down credential stuffing
	authLimiter := middleware.AuthRateLimitMiddleware()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authLimiter, r.authController.Register)
			auth.POST("/login", authLimiter, r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.ListMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
		}

		seller := v1.Group("/seller")
		seller.Use(r.authMiddleware.Authenticate())
		seller.Use(r.authMiddleware.RequireRole("seller", "admin"))
		{
			seller.GET("/dashboard", r.sellerController.GetDashboard)
			seller.GET("/products", r.sellerController.GetProducts)
			seller.POST("/products", r.productController.CreateProduct)
			seller.PUT("/products/:id", r.productController.UpdateProduct)
			seller.DELETE("/products/:id", r.productController.DeleteProduct)
			seller.POST("/products/:id/images", r.productController.AddProductImage)
			seller.DELETE("/products/:id/images/:imageId", r.productController.DeleteProductImage)
			seller.GET("/orders", r.sellerController.GetOrders)
			seller.PUT("/orders/:id/status", r.orderController.UpdateStatus)
			seller.GET("/reports/sales", r.sellerController.ExportSalesReport)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/dashboard", r.adminController.GetDashboard)
			admin.GET("/users", r.adminController.ListUsers)
			admin.PUT("/users/:id/role", r.adminController.UpdateUserRole)
			admin.PUT("/users/:id/status", r.adminController.UpdateUserStatus)
			admin.GET("/orders", r.adminController.ListOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateStatus)
			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
