package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/service"
	apperrors "github.com/sellio/sellio-backend/internal/errors"
	"github.com/sellio/sellio-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns the category tree
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetCategory returns a single category
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
		return
	}

	category, err := ctrl.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory creates a category, optionally under a parent
// POST /api/v1/admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(actor, req.Name, req.ParentID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNameTaken) {
			apperrors.Conflict(c, apperrors.CategoryNameExists, "A category with this name already exists")
			return
		}
		if errors.Is(err, service.ErrParentNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Parent category not found")
			return
		}
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory renames a category
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	categoryID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category details")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(actor, categoryID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNameTaken) {
			apperrors.Conflict(c, apperrors.CategoryNameExists, "A category with this name already exists")
			return
		}
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory removes a category with no products or children
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	categoryID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.DeleteCategory(actor, categoryID); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNotEmpty) {
			apperrors.Conflict(c, apperrors.CategoryNotEmpty, "Category still has products or subcategories")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
