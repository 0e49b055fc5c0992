package service

import (
	"testing"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB, Actor) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryService := NewCategoryService(categoryRepo, productRepo)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	testDB.Create(admin)

	return categoryService, testDB, Actor{UserID: admin.ID, Role: model.RoleAdmin}
}

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	parent, err := categoryService.CreateCategory(admin, "Electronics", nil)
	require.NoError(t, err)
	assert.NotZero(t, parent.ID)
	assert.Equal(t, admin.UserID, parent.CreatedBy)

	child, err := categoryService.CreateCategory(admin, "Laptops", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	_, err := categoryService.CreateCategory(admin, "Books", nil)
	require.NoError(t, err)

	_, err = categoryService.CreateCategory(admin, "Books", nil)
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestCategoryService_CreateCategory_UnknownParent(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	missing := uint(9999)
	_, err := categoryService.CreateCategory(admin, "Orphan", &missing)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(admin, "Gadgets", nil)
	require.NoError(t, err)
	taken, err := categoryService.CreateCategory(admin, "Toys", nil)
	require.NoError(t, err)

	updated, err := categoryService.UpdateCategory(admin, category.ID, "Devices")
	require.NoError(t, err)
	assert.Equal(t, "Devices", updated.Name)

	// Renaming onto another category's name is rejected
	_, err = categoryService.UpdateCategory(admin, category.ID, taken.Name)
	assert.ErrorIs(t, err, ErrCategoryNameTaken)

	// Renaming to the current name is a no-op
	same, err := categoryService.UpdateCategory(admin, category.ID, "Devices")
	require.NoError(t, err)
	assert.Equal(t, "Devices", same.Name)
}

func TestCategoryService_DeleteCategory_BlockedByProducts(t *testing.T) {
	categoryService, testDB, admin := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(admin, "Occupied", nil)
	require.NoError(t, err)

	seller := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hash",
		Name:         "Seller",
		Role:         model.RoleSeller,
	}
	testDB.Create(seller)
	testDB.Create(&model.Product{
		SellerID:   seller.ID,
		CategoryID: &category.ID,
		Name:       "Resident Product",
		Price:      1.00,
	})

	err = categoryService.DeleteCategory(admin, category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotEmpty)
}

func TestCategoryService_DeleteCategory_BlockedByChildren(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	parent, err := categoryService.CreateCategory(admin, "Parent", nil)
	require.NoError(t, err)
	_, err = categoryService.CreateCategory(admin, "Child", &parent.ID)
	require.NoError(t, err)

	err = categoryService.DeleteCategory(admin, parent.ID)
	assert.ErrorIs(t, err, ErrCategoryNotEmpty)
}

func TestCategoryService_DeleteCategory_Empty(t *testing.T) {
	categoryService, _, admin := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(admin, "Ephemeral", nil)
	require.NoError(t, err)

	require.NoError(t, categoryService.DeleteCategory(admin, category.ID))

	_, err = categoryService.GetCategoryByID(category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
