package repository

import (
	"fmt"
	"strings"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortOldest    ProductSort = "oldest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
	ProductSortBestSell  ProductSort = "best_selling"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// ProductFilter collects catalog query criteria. Every field is optional;
// the zero value means "no constraint". Values always enter the query as
// bound parameters, never as interpolated SQL.
type ProductFilter struct {
	CategoryID *uint
	SellerID   *uint
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Stock      StockStatus
	Featured   *bool
	SortBy     ProductSort
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySellerID(sellerID uint) ([]model.Product, error)
	FindFeatured(limit int) ([]model.Product, error)
	CountByCategory(categoryID uint) (int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	AddImage(image *model.ProductImage) error
	DeleteImage(imageID uint) error
	FindImageByID(imageID uint) (*model.ProductImage, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.sort_order ASC")
		})
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":      product.Name,
		"seller_id": product.SellerID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":      product.Name,
			"seller_id": product.SellerID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// BulkCreate inserts products in batches. Used by the XLSX import tool.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"seller_id":   filter.SellerID,
		"search":      filter.Search,
		"stock":       filter.Stock,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery()

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}

	if filter.SellerID != nil {
		query = query.Where("products.seller_id = ?", *filter.SellerID)
	}

	if filter.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on Postgres
		// and the sqlite test DB alike.
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	switch filter.Stock {
	case StockStatusInStock:
		query = query.Where("products.stock_quantity > ?", model.LowStockThreshold)
	case StockStatusLowStock:
		query = query.Where("products.stock_quantity > 0 AND products.stock_quantity <= ?", model.LowStockThreshold)
	case StockStatusOutOfStock:
		query = query.Where("products.stock_quantity = 0")
	}

	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	// Sort keys come from a fixed allow-list; anything else falls back
	// to newest-first.
	switch filter.SortBy {
	case ProductSortOldest:
		query = query.Order("products.created_at ASC")
	case ProductSortPriceAsc:
		query = query.Order("products.price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	case ProductSortName:
		query = query.Order("products.name ASC")
	case ProductSortBestSell:
		query = query.Order("products.sold_count DESC").Order("products.created_at DESC")
	case ProductSortNewest:
		fallthrough
	default:
		query = query.Order("products.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.baseQuery().Preload("Seller").First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBySellerID(sellerID uint) ([]model.Product, error) {
	logger.Debug("Finding products by seller ID in database", map[string]interface{}{
		"seller_id": sellerID,
	})

	var products []model.Product
	err := r.baseQuery().
		Where("products.seller_id = ?", sellerID).
		Order("products.created_at DESC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products by seller ID in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	logger.Debug("Products found by seller ID in database", map[string]interface{}{
		"seller_id": sellerID,
		"count":     len(products),
	})
	return products, nil
}

func (r *productRepository) FindFeatured(limit int) ([]model.Product, error) {
	featured := true
	products, _, err := r.FindWithFilter(ProductFilter{
		Featured: &featured,
		SortBy:   ProductSortNewest,
		Limit:    limit,
	})
	return products, err
}

func (r *productRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count products by category in database", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return 0, err
	}
	return count, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

func (r *productRepository) AddImage(image *model.ProductImage) error {
	logger.Debug("Adding product image in database", map[string]interface{}{
		"product_id": image.ProductID,
		"url":        image.URL,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to add product image in database", err, map[string]interface{}{
			"product_id": image.ProductID,
		})
		return err
	}

	return nil
}

func (r *productRepository) DeleteImage(imageID uint) error {
	logger.Debug("Deleting product image from database", map[string]interface{}{
		"image_id": imageID,
	})

	if err := r.db.Delete(&model.ProductImage{}, imageID).Error; err != nil {
		logger.Error("Failed to delete product image from database", err, map[string]interface{}{
			"image_id": imageID,
		})
		return err
	}

	return nil
}

func (r *productRepository) FindImageByID(imageID uint) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := r.db.First(&image, imageID).Error; err != nil {
		logger.Error("Failed to find product image by ID in database", err, map[string]interface{}{
			"image_id": imageID,
		})
		return nil, err
	}
	return &image, nil
}
