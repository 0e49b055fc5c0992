package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/controller"
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/app/service"
	"github.com/sellio/sellio-backend/internal/db"
	"github.com/sellio/sellio-backend/internal/middleware"
	"github.com/sellio/sellio-backend/internal/storage"
	"github.com/sellio/sellio-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	productService := service.NewProductService(productRepo, categoryRepo, images)
	categoryService := service.NewCategoryService(categoryRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, addressRepo, testDB)
	addressService := service.NewAddressService(addressRepo)
	adminService := service.NewAdminService(userRepo, orderRepo)

	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)
	adminController := controller.NewAdminController(adminService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.ListProducts)
		products.GET("/:id", productController.GetProduct)
	}

	cart := router.Group("/api/v1/cart")
	cart.Use(authMiddleware.Authenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/items", cartController.AddItem)
	}

	orders := router.Group("/api/v1/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("", orderController.CreateOrder)
		orders.GET("", orderController.ListMyOrders)
		orders.GET("/:id", orderController.GetOrder)
		orders.POST("/:id/cancel", orderController.CancelOrder)
	}

	addresses := router.Group("/api/v1/addresses")
	addresses.Use(authMiddleware.Authenticate())
	{
		addresses.POST("", addressController.CreateAddress)
	}

	seller := router.Group("/api/v1/seller")
	seller.Use(authMiddleware.Authenticate())
	seller.Use(authMiddleware.RequireRole("seller", "admin"))
	{
		seller.PUT("/orders/:id/status", orderController.UpdateStatus)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole("admin"))
	{
		admin.POST("/categories", categoryController.CreateCategory)
		admin.DELETE("/categories/:id", categoryController.DeleteCategory)
		admin.PUT("/users/:id/role", adminController.UpdateUserRole)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) request(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) tokenFor(t *testing.T, user *model.User) string {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), "test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestCompleteShoppingJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	// 1. Register a customer
	t.Log("Step 1: Register customer")
	w := ts.request("POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "buyer@example.com",
		"password": "password123",
		"name":     "Test Buyer",
		"phone":    "555-0100",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	accessToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	// 2. Seed a seller with a product (direct insert for test convenience)
	t.Log("Step 2: Seed seller and product")
	seller := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hash",
		Name:         "Seller",
		Role:         model.RoleSeller,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(seller)

	product := &model.Product{
		SellerID:      seller.ID,
		Name:          "Ceramic Mug",
		Description:   "350ml stoneware mug",
		Price:         10.00,
		CostPrice:     3.50,
		StockQuantity: 10,
	}
	ts.DB.Create(product)

	// 3. Browse the catalog
	t.Log("Step 3: Browse products")
	w = ts.request("GET", "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var productsResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &productsResp)
	assert.Equal(t, float64(1), productsResp["total"])

	// 4. Save a shipping address
	t.Log("Step 4: Create shipping address")
	w = ts.request("POST", "/api/v1/addresses", accessToken, map[string]interface{}{
		"label":     "Home",
		"recipient": "Test Buyer",
		"phone":     "555-0100",
		"street":    "1 Main St",
		"city":      "Springfield",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var addressResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &addressResp)
	addressID := uint(addressResp["address"].(map[string]interface{})["id"].(float64))

	// 5. Add the product to the cart
	t.Log("Step 5: Add to cart")
	w = ts.request("POST", "/api/v1/cart/items", accessToken, map[string]interface{}{
		"product_id": product.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var cartResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Equal(t, float64(2), cartResp["cart_count"])

	// 6. Check out
	t.Log("Step 6: Place order")
	w = ts.request("POST", "/api/v1/orders", accessToken, map[string]interface{}{
		"shipping_address_id": addressID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var orderResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &orderResp)
	order := orderResp["order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])

	// $20 subtotal + $2 tax + $5 shipping
	assert.Equal(t, 20.00, order["subtotal"])
	assert.Equal(t, 2.00, order["tax_amount"])
	assert.Equal(t, 5.00, order["shipping_fee"])
	assert.Equal(t, 27.00, order["total_amount"])

	// 7. Cart is empty after checkout
	t.Log("Step 7: Verify cart is empty")
	w = ts.request("GET", "/api/v1/cart", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Equal(t, float64(0), cartResp["cart_count"])

	// 8. Stock decreased, sold count increased
	t.Log("Step 8: Verify stock movement")
	var updatedProduct model.Product
	ts.DB.First(&updatedProduct, product.ID)
	assert.Equal(t, 8, updatedProduct.StockQuantity)
	assert.Equal(t, 2, updatedProduct.SoldCount)

	// 9. Seller moves the order through its lifecycle
	t.Log("Step 9: Seller confirms and ships")
	sellerToken := ts.tokenFor(t, seller)
	for _, status := range []string{"confirmed", "shipped", "delivered"} {
		w = ts.request("PUT", fmt.Sprintf("/api/v1/seller/orders/%d/status", orderID), sellerToken, map[string]string{
			"status": status,
		})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// 10. Delivered orders cannot be cancelled
	t.Log("Step 10: Cancel after delivery is rejected")
	w = ts.request("POST", fmt.Sprintf("/api/v1/orders/%d/cancel", orderID), accessToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancellationRestoresStock(t *testing.T) {
	ts := setupIntegrationTest(t)

	customer := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(customer)

	seller := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hash",
		Name:         "Seller",
		Role:         model.RoleSeller,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(seller)

	product := &model.Product{
		SellerID:      seller.ID,
		Name:          "Poster",
		Price:         10.00,
		StockQuantity: 5,
	}
	ts.DB.Create(product)

	address := &model.Address{
		UserID:    customer.ID,
		Label:     "Home",
		Recipient: "Buyer",
		Phone:     "555-0100",
		Street:    "1 Main St",
		City:      "Springfield",
	}
	ts.DB.Create(address)
	ts.DB.Create(&model.CartItem{UserID: customer.ID, ProductID: product.ID, Quantity: 3})

	token := ts.tokenFor(t, customer)

	w := ts.request("POST", "/api/v1/orders", token, map[string]interface{}{
		"shipping_address_id": address.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var orderResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &orderResp)
	orderID := uint(orderResp["order"].(map[string]interface{})["id"].(float64))

	var afterOrder model.Product
	ts.DB.First(&afterOrder, product.ID)
	require.Equal(t, 2, afterOrder.StockQuantity)

	w = ts.request("POST", fmt.Sprintf("/api/v1/orders/%d/cancel", orderID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var afterCancel model.Product
	ts.DB.First(&afterCancel, product.ID)
	assert.Equal(t, 5, afterCancel.StockQuantity)
	assert.Equal(t, 0, afterCancel.SoldCount)
}

func TestCategoryDeletionBlockedWhileReferenced(t *testing.T) {
	ts := setupIntegrationTest(t)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(admin)
	adminToken := ts.tokenFor(t, admin)

	w := ts.request("POST", "/api/v1/admin/categories", adminToken, map[string]interface{}{
		"name": "Ceramics",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var categoryResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &categoryResp)
	categoryID := uint(categoryResp["category"].(map[string]interface{})["id"].(float64))

	product := &model.Product{
		SellerID:      admin.ID,
		CategoryID:    &categoryID,
		Name:          "Vase",
		Price:         40.00,
		StockQuantity: 2,
	}
	ts.DB.Create(product)

	w = ts.request("DELETE", fmt.Sprintf("/api/v1/admin/categories/%d", categoryID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CATEGORY_NOT_EMPTY")

	// After the product is gone the category can be removed
	ts.DB.Unscoped().Delete(product)
	w = ts.request("DELETE", fmt.Sprintf("/api/v1/admin/categories/%d", categoryID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleEscalationRequiresAdmin(t *testing.T) {
	ts := setupIntegrationTest(t)

	customer := &model.User{
		Email:        "user@example.com",
		PasswordHash: "hash",
		Name:         "User",
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(customer)

	target := &model.User{
		Email:        "target@example.com",
		PasswordHash: "hash",
		Name:         "Target",
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(target)

	// A customer cannot grant roles
	w := ts.request("PUT", fmt.Sprintf("/api/v1/admin/users/%d/role", target.ID), ts.tokenFor(t, customer), map[string]string{
		"role": "seller",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An admin can
	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	ts.DB.Create(admin)

	w = ts.request("PUT", fmt.Sprintf("/api/v1/admin/users/%d/role", target.ID), ts.tokenFor(t, admin), map[string]string{
		"role": "seller",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	ts.DB.First(&updated, target.ID)
	assert.Equal(t, model.RoleSeller, updated.Role)
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)

	protectedRoutes := []string{
		"/api/v1/auth/me",
		"/api/v1/cart",
		"/api/v1/orders",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			req := httptest.NewRequest("GET", route, nil)
			w := httptest.NewRecorder()

			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
