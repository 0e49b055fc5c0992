package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/app/service"
	"github.com/sellio/sellio-backend/internal/db"
	"github.com/sellio/sellio-backend/internal/middleware"
	"github.com/sellio/sellio-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productControllerFixture struct {
	router      *gin.Engine
	db          *gorm.DB
	seller      *model.User
	sellerToken string
	category    *model.Category
}

func setupProductControllerTest(t *testing.T) productControllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productService := service.NewProductService(productRepo, categoryRepo, images)

	ctrl := NewProductController(productService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.GET("/products", ctrl.ListProducts)
	router.GET("/products/featured", ctrl.GetFeaturedProducts)
	router.GET("/products/:id", ctrl.GetProduct)

	sellerRoutes := router.Group("/seller/products",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole("seller", "admin"))
	{
		sellerRoutes.POST("", ctrl.CreateProduct)
		sellerRoutes.PUT("/:id", ctrl.UpdateProduct)
		sellerRoutes.DELETE("/:id", ctrl.DeleteProduct)
	}

	seller := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hash",
		Name:         "Seller",
		Role:         model.RoleSeller,
		Status:       model.UserStatusActive,
	}
	testDB.Create(seller)

	category := &model.Category{Name: "Electronics", CreatedBy: seller.ID}
	testDB.Create(category)

	return productControllerFixture{
		router:      router,
		db:          testDB,
		seller:      seller,
		sellerToken: bearerToken(t, seller),
		category:    category,
	}
}

func (f productControllerFixture) createProduct(name string, price float64, stock int, featured bool) *model.Product {
	product := &model.Product{
		SellerID:      f.seller.ID,
		CategoryID:    &f.category.ID,
		Name:          name,
		Price:         price,
		CostPrice:     price / 2,
		StockQuantity: stock,
		IsFeatured:    featured,
	}
	f.db.Create(product)
	return product
}

func TestProductController_ListProducts(t *testing.T) {
	f := setupProductControllerTest(t)
	f.createProduct("Keyboard", 50.00, 10, false)
	f.createProduct("Mouse", 20.00, 5, true)

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["total"])
}

func TestProductController_ListProducts_Filtered(t *testing.T) {
	f := setupProductControllerTest(t)
	f.createProduct("Keyboard", 50.00, 10, false)
	f.createProduct("Mouse", 20.00, 5, true)
	f.createProduct("Monitor", 200.00, 0, false)

	req := httptest.NewRequest("GET", "/products?min_price=30&max_price=100", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["total"])

	req = httptest.NewRequest("GET", "/products?stock=out_of_stock", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["total"])
	products := response["products"].([]interface{})
	assert.Equal(t, "Monitor", products[0].(map[string]interface{})["name"])
}

func TestProductController_GetProduct(t *testing.T) {
	f := setupProductControllerTest(t)
	product := f.createProduct("Webcam", 35.00, 3, false)

	req := httptest.NewRequest("GET", "/products/"+formatID(product.ID), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	got := response["product"].(map[string]interface{})
	assert.Equal(t, "Webcam", got["name"])
}

func TestProductController_GetProduct_NotFound(t *testing.T) {
	f := setupProductControllerTest(t)

	req := httptest.NewRequest("GET", "/products/9999", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestProductController_GetFeaturedProducts(t *testing.T) {
	f := setupProductControllerTest(t)
	f.createProduct("Plain", 10.00, 5, false)
	f.createProduct("Highlighted", 15.00, 5, true)

	req := httptest.NewRequest("GET", "/products/featured", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	products := response["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Highlighted", products[0].(map[string]interface{})["name"])
}

func TestProductController_CreateProduct(t *testing.T) {
	f := setupProductControllerTest(t)

	price := 49.99
	stock := 7
	reqBody := CreateProductRequest{
		Name:          "Speaker",
		Description:   "Bluetooth speaker",
		Price:         &price,
		StockQuantity: &stock,
		CategoryID:    &f.category.ID,
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/seller/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.sellerToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	product := response["product"].(map[string]interface{})
	assert.Equal(t, "Speaker", product["name"])
	assert.Equal(t, 49.99, product["price"])
}

func TestProductController_CreateProduct_CustomerForbidden(t *testing.T) {
	f := setupProductControllerTest(t)

	customer := &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hash",
		Name:         "Customer",
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	f.db.Create(customer)

	price := 1.00
	body, _ := json.Marshal(CreateProductRequest{Name: "Nope", Price: &price})
	req := httptest.NewRequest("POST", "/seller/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, customer))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductController_UpdateProduct_ForeignSellerForbidden(t *testing.T) {
	f := setupProductControllerTest(t)
	product := f.createProduct("Guarded", 10.00, 5, false)

	stranger := &model.User{
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		Name:         "Stranger",
		Role:         model.RoleSeller,
		Status:       model.UserStatusActive,
	}
	f.db.Create(stranger)

	price := 1.00
	body, _ := json.Marshal(UpdateProductRequest{Price: &price})
	req := httptest.NewRequest("PUT", "/seller/products/"+formatID(product.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, stranger))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductController_DeleteProduct(t *testing.T) {
	f := setupProductControllerTest(t)
	product := f.createProduct("Doomed", 10.00, 5, false)

	req := httptest.NewRequest("DELETE", "/seller/products/"+formatID(product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+f.sellerToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/products/"+formatID(product.ID), nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
