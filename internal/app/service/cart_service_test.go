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

type cartServiceFixture struct {
	service CartService
	db      *gorm.DB
	user    *model.User
	product *model.Product
}

func setupCartServiceTest(t *testing.T) cartServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "cart@example.com",
		PasswordHash: "hash",
		Name:         "Cart User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	seller := &model.User{
		Email:        "cartseller@example.com",
		PasswordHash: "hash",
		Name:         "Seller",
		Role:         model.RoleSeller,
	}
	testDB.Create(seller)

	product := &model.Product{
		SellerID:      seller.ID,
		Name:          "USB Cable",
		Price:         10.00,
		CostPrice:     3.00,
		StockQuantity: 5,
	}
	testDB.Create(product)

	return cartServiceFixture{
		service: cartService,
		db:      testDB,
		user:    user,
		product: product,
	}
}

func TestCartService_AddItem(t *testing.T) {
	f := setupCartServiceTest(t)

	summary, err := f.service.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.CartCount)
	assert.Equal(t, 20.00, summary.Quote.Subtotal)
	assert.Equal(t, 27.00, summary.Quote.Total)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	f := setupCartServiceTest(t)

	_, err := f.service.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	summary, err := f.service.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, 3, summary.CartCount)
}

func TestCartService_AddItem_MergedQuantityCappedByStock(t *testing.T) {
	f := setupCartServiceTest(t)

	_, err := f.service.AddItem(f.user.ID, f.product.ID, 4)
	require.NoError(t, err)

	// 4 in the cart + 2 more would exceed the 5 in stock
	_, err = f.service.AddItem(f.user.ID, f.product.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	f := setupCartServiceTest(t)

	_, err := f.service.AddItem(f.user.ID, f.product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.service.AddItem(f.user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.service.AddItem(f.user.ID, f.product.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	f := setupCartServiceTest(t)

	summary, err := f.service.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	updated, err := f.service.UpdateItemQuantity(f.user.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.Equal(t, 40.00, updated.Quote.Subtotal)

	_, err = f.service.UpdateItemQuantity(f.user.ID, itemID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = f.service.UpdateItemQuantity(f.user.ID, itemID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateItemQuantity_ForeignItemHidden(t *testing.T) {
	f := setupCartServiceTest(t)

	summary, err := f.service.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	_, err = f.service.UpdateItemQuantity(9999, summary.Items[0].ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	f := setupCartServiceTest(t)

	summary, err := f.service.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	after, err := f.service.RemoveItem(f.user.ID, summary.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Equal(t, 0, after.CartCount)
	assert.Equal(t, 0.00, after.Quote.Total)
}

func TestCartService_ClearCart(t *testing.T) {
	f := setupCartServiceTest(t)

	_, err := f.service.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.service.ClearCart(f.user.ID))

	summary, err := f.service.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_GetCart_EmptyQuotesZero(t *testing.T) {
	f := setupCartServiceTest(t)

	summary, err := f.service.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0.00, summary.Quote.ShippingFee)
	assert.Equal(t, 0.00, summary.Quote.Total)
}
