package service

import (
	"context"
	"errors"
	"io"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/storage"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductAccessDenied = errors.New("product does not belong to this seller")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrImageNotFound       = errors.New("product image not found")
)

// ProductInput carries the writable product fields. Pointer fields
// distinguish "leave unchanged" from "set to zero" on updates.
type ProductInput struct {
	Name          string
	Description   string
	Price         *float64
	CostPrice     *float64
	StockQuantity *int
	CategoryID    *uint
	IsFeatured    *bool
	MainImageURL  *string
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProductByID(id uint) (*model.Product, error)
	GetFeaturedProducts(limit int) ([]model.Product, error)
	CreateProduct(actor Actor, input ProductInput) (*model.Product, error)
	UpdateProduct(actor Actor, productID uint, input ProductInput) (*model.Product, error)
	DeleteProduct(actor Actor, productID uint) error
	AddImage(ctx context.Context, actor Actor, productID uint, filename, contentType string, content io.Reader) (*model.ProductImage, error)
	DeleteImage(ctx context.Context, actor Actor, productID, imageID uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStorage
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images storage.ImageStorage,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"search":  filter.Search,
		"sort_by": filter.SortBy,
	})

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	return products, total, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return product, nil
}

func (s *productService) GetFeaturedProducts(limit int) ([]model.Product, error) {
	products, err := s.productRepo.FindFeatured(limit)
	if err != nil {
		logger.Error("Failed to fetch featured products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) CreateProduct(actor Actor, input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"seller_id": actor.UserID,
		"name":      input.Name,
	})

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product creation failed: category not found", map[string]interface{}{
					"category_id": *input.CategoryID,
				})
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	product := &model.Product{
		SellerID:    actor.UserID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.MainImageURL != nil {
		product.MainImageURL = *input.MainImageURL
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"seller_id": actor.UserID,
			"name":      input.Name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"seller_id":  actor.UserID,
	})
	return product, nil
}

func (s *productService) UpdateProduct(actor Actor, productID uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": productID,
		"actor_id":   actor.UserID,
	})

	product, err := s.ownedProduct(actor, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.MainImageURL != nil {
		product.MainImageURL = *input.MainImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": productID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(actor Actor, productID uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": productID,
		"actor_id":   actor.UserID,
	})

	if _, err := s.ownedProduct(actor, productID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(productID); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": productID,
	})
	return nil
}

func (s *productService) AddImage(ctx context.Context, actor Actor, productID uint, filename, contentType string, content io.Reader) (*model.ProductImage, error) {
	logger.Info("Adding product image", map[string]interface{}{
		"product_id": productID,
		"actor_id":   actor.UserID,
	})

	product, err := s.ownedProduct(actor, productID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Store(ctx, filename, contentType, content)
	if err != nil {
		logger.Error("Failed to store product image", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	image := &model.ProductImage{
		ProductID: productID,
		URL:       url,
		SortOrder: len(product.Images) + 1,
	}
	if err := s.productRepo.AddImage(image); err != nil {
		// Roll the stored file back so storage does not leak orphans
		if delErr := s.images.Delete(ctx, url); delErr != nil {
			logger.Warn("Failed to remove orphaned image after database error", map[string]interface{}{
				"url":   url,
				"error": delErr.Error(),
			})
		}
		return nil, err
	}

	// First image becomes the listing thumbnail
	if product.MainImageURL == "" {
		product.MainImageURL = url
		if err := s.productRepo.Update(product); err != nil {
			logger.Warn("Failed to set main image", map[string]interface{}{
				"product_id": productID,
				"error":      err.Error(),
			})
		}
	}

	logger.Info("Product image added", map[string]interface{}{
		"product_id": productID,
		"image_id":   image.ID,
	})
	return image, nil
}

func (s *productService) DeleteImage(ctx context.Context, actor Actor, productID, imageID uint) error {
	logger.Info("Deleting product image", map[string]interface{}{
		"product_id": productID,
		"image_id":   imageID,
	})

	if _, err := s.ownedProduct(actor, productID); err != nil {
		return err
	}

	image, err := s.productRepo.FindImageByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if image.ProductID != productID {
		logger.Warn("Image does not belong to product", map[string]interface{}{
			"image_id":   imageID,
			"product_id": productID,
		})
		return ErrImageNotFound
	}

	if err := s.productRepo.DeleteImage(imageID); err != nil {
		return err
	}

	if err := s.images.Delete(ctx, image.URL); err != nil {
		logger.Warn("Failed to remove image file from storage", map[string]interface{}{
			"url":   image.URL,
			"error": err.Error(),
		})
	}

	return nil
}

// ownedProduct loads a product and checks the actor may manage it. Admins
// manage any product; sellers only their own.
func (s *productService) ownedProduct(actor Actor, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if actor.Role != model.RoleAdmin && product.SellerID != actor.UserID {
		logger.Warn("Product access denied: ownership mismatch", map[string]interface{}{
			"product_id": productID,
			"actor_id":   actor.UserID,
			"owner_id":   product.SellerID,
		})
		return nil, ErrProductAccessDenied
	}

	return product, nil
}
