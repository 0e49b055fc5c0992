package service

import (
	"errors"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrCategoryNotEmpty  = errors.New("category still has products or subcategories")
	ErrParentNotFound    = errors.New("parent category not found")
)

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategoryByID(id uint) (*model.Category, error)
	CreateCategory(actor Actor, name string, parentID *uint) (*model.Category, error)
	UpdateCategory(actor Actor, id uint, name string) (*model.Category, error)
	DeleteCategory(actor Actor, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	logger.Debug("Listing categories")

	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"category_id": id,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(actor Actor, name string, parentID *uint) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name":      name,
		"parent_id": parentID,
		"actor_id":  actor.UserID,
	})

	existing, err := s.categoryRepo.FindByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check category name", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Category creation failed: name already exists", map[string]interface{}{
			"name": name,
		})
		return nil, ErrCategoryNameTaken
	}

	if parentID != nil {
		if _, err := s.categoryRepo.FindByID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	category := &model.Category{
		Name:      name,
		ParentID:  parentID,
		CreatedBy: actor.UserID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"name":        name,
	})
	return category, nil
}

func (s *categoryService) UpdateCategory(actor Actor, id uint, name string) (*model.Category, error) {
	logger.Info("Updating category", map[string]interface{}{
		"category_id": id,
		"name":        name,
		"actor_id":    actor.UserID,
	})

	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if name == "" || name == category.Name {
		return category, nil
	}

	existing, err := s.categoryRepo.FindByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrCategoryNameTaken
	}

	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		logger.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	return category, nil
}

// DeleteCategory refuses to remove a category while any product or child
// category still references it.
func (s *categoryService) DeleteCategory(actor Actor, id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
		"actor_id":    actor.UserID,
	})

	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}

	productCount, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	childCount, err := s.categoryRepo.CountChildren(id)
	if err != nil {
		return err
	}
	if productCount > 0 || childCount > 0 {
		logger.Warn("Category deletion blocked: still referenced", map[string]interface{}{
			"category_id":   id,
			"product_count": productCount,
			"child_count":   childCount,
		})
		return ErrCategoryNotEmpty
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	logger.Info("Category deleted successfully", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
