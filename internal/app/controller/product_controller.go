package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/app/service"
	apperrors "github.com/sellio/sellio-backend/internal/errors"
	"github.com/sellio/sellio-backend/internal/middleware"
	"github.com/sellio/sellio-backend/internal/storage"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price" binding:"required,gte=0"`
	CostPrice     *float64 `json:"cost_price" binding:"omitempty,gte=0"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	CategoryID    *uint    `json:"category_id"`
	IsFeatured    *bool    `json:"is_featured"`
}

type UpdateProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	CostPrice     *float64 `json:"cost_price" binding:"omitempty,gte=0"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	CategoryID    *uint    `json:"category_id"`
	IsFeatured    *bool    `json:"is_featured"`
	MainImageURL  *string  `json:"main_image_url"`
}

// ListProducts returns the public catalog with filtering and sorting
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Stock:  repository.StockStatus(c.Query("stock")),
		SortBy: repository.ProductSort(c.Query("sort_by")),
	}
	filter.Limit, filter.Offset = paginationParams(c)

	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := c.Query("seller_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			sellerID := uint(id)
			filter.SellerID = &sellerID
		}
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// GetProduct returns a single product with its images and category
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetFeaturedProducts returns the featured product strip for the storefront
// GET /api/v1/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if limit < 1 || limit > 50 {
		limit = 8
	}

	products, err := ctrl.productService.GetFeaturedProducts(limit)
	if err != nil {
		log.Error("Failed to fetch featured products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// CreateProduct creates a product owned by the requesting seller
// POST /api/v1/seller/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	product, err := ctrl.productService.CreateProduct(actor, service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"seller_id": actor.UserID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"seller_id":  actor.UserID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates a product the actor owns (or any, for admins)
// PUT /api/v1/seller/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	product, err := ctrl.productService.UpdateProduct(actor, productID, service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		IsFeatured:    req.IsFeatured,
		MainImageURL:  req.MainImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductAccessDenied) {
			apperrors.Forbidden(c, "You can only manage your own products")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product the actor owns (or any, for admins)
// DELETE /api/v1/seller/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(actor, productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductAccessDenied) {
			apperrors.Forbidden(c, "You can only manage your own products")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// AddProductImage uploads an image file and attaches it to a product
// POST /api/v1/seller/products/:id/images
func (ctrl *ProductController) AddProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "An image file is required")
		return
	}
	if err := storage.ValidateFileSize(fileHeader.Size); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Image must be 5MB or smaller")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := storage.ValidateContentType(contentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, GIF and WebP images are allowed")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	image, err := ctrl.productService.AddImage(c.Request.Context(), actor, productID, fileHeader.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductAccessDenied) {
			apperrors.Forbidden(c, "You can only manage your own products")
			return
		}
		log.Error("Failed to add product image", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "upload image")
		return
	}

	log.Info("Product image uploaded", map[string]interface{}{
		"product_id": productID,
		"image_id":   image.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}

// DeleteProductImage detaches an image from a product and removes the file
// DELETE /api/v1/seller/products/:id/images/:imageId
func (ctrl *ProductController) DeleteProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}
	imageID, ok := pathID(c, "imageId")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid image ID")
		return
	}

	if err := ctrl.productService.DeleteImage(c.Request.Context(), actor, productID, imageID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrImageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Image not found")
			return
		}
		if errors.Is(err, service.ErrProductAccessDenied) {
			apperrors.Forbidden(c, "You can only manage your own products")
			return
		}
		log.Error("Failed to delete product image", err, map[string]interface{}{
			"product_id": productID,
			"image_id":   imageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
	})
}
