package repository

import (
	"testing"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)
	return testDB, repo
}

type orderFixture struct {
	customer *model.User
	seller   *model.User
	product  *model.Product
	address  *model.Address
}

func createOrderFixture(t *testing.T, testDB *gorm.DB) orderFixture {
	customer := &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hashed",
		Name:         "Customer",
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	require.NoError(t, testDB.Create(customer).Error)

	seller := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hashed",
		Name:         "Seller",
		Role:         model.RoleSeller,
		Status:       model.UserStatusActive,
	}
	require.NoError(t, testDB.Create(seller).Error)

	product := &model.Product{
		SellerID:      seller.ID,
		Name:          "Wireless Mouse",
		Price:         10.00,
		CostPrice:     4.00,
		StockQuantity: 100,
	}
	require.NoError(t, testDB.Create(product).Error)

	address := &model.Address{
		UserID:    customer.ID,
		Label:     "Home",
		Recipient: "Customer",
		Phone:     "555-0100",
		Street:    "1 Main St",
		City:      "Springfield",
	}
	require.NoError(t, testDB.Create(address).Error)

	return orderFixture{customer: customer, seller: seller, product: product, address: address}
}

func createTestOrder(t *testing.T, repo OrderRepository, f orderFixture, status model.OrderStatus, quantity int) *model.Order {
	lineTotal := f.product.Price * float64(quantity)
	order := &model.Order{
		UserID:            f.customer.ID,
		ShippingAddressID: f.address.ID,
		Status:            status,
		Subtotal:          lineTotal,
		TaxAmount:         lineTotal * 0.1,
		ShippingFee:       5.00,
		TotalAmount:       lineTotal*1.1 + 5.00,
		OrderItems: []model.OrderItem{
			{
				ProductID:       f.product.ID,
				SellerID:        f.seller.ID,
				Quantity:        quantity,
				PriceAtPurchase: f.product.Price,
				TotalPrice:      lineTotal,
			},
		},
	}
	require.NoError(t, repo.Create(order))
	return order
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	order := createTestOrder(t, repo, f, model.OrderStatusPending, 2)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, found.UserID)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, 10.00, found.OrderItems[0].PriceAtPurchase)
	assert.Equal(t, "Wireless Mouse", found.OrderItems[0].Product.Name)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	createTestOrder(t, repo, f, model.OrderStatusPending, 1)
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 3)

	orders, err := repo.FindByUserID(f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindByUserID(9999)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_FindBySellerID(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	createTestOrder(t, repo, f, model.OrderStatusPending, 1)
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 2)

	orders, err := repo.FindBySellerID(f.seller.ID, "")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindBySellerID(f.seller.ID, string(model.OrderStatusDelivered))
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	// Sellers with no items in any order see nothing
	orders, err = repo.FindBySellerID(9999, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_SellerHasItems(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	order := createTestOrder(t, repo, f, model.OrderStatusPending, 1)

	has, err := repo.SellerHasItems(order.ID, f.seller.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.SellerHasItems(order.ID, 9999)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	order := createTestOrder(t, repo, f, model.OrderStatusPending, 1)

	require.NoError(t, repo.UpdateStatus(order.ID, model.OrderStatusConfirmed))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, found.Status)
}

func TestOrderRepository_GetSellerStats(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)

	// Two delivered orders count toward revenue, the cancelled one does not.
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 2)
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 1)
	createTestOrder(t, repo, f, model.OrderStatusCancelled, 5)

	stats, err := repo.GetSellerStats(f.seller.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.DeliveredOrders)
	assert.Equal(t, int64(1), stats.CancelledOrders)
	assert.InDelta(t, 30.00, stats.TotalRevenue, 0.001)
	// Profit: (10.00 - 4.00) * 3 delivered units
	assert.InDelta(t, 18.00, stats.TotalProfit, 0.001)
	assert.Equal(t, int64(3), stats.UnitsSold)
}

func TestOrderRepository_GetPlatformStats(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 2)
	createTestOrder(t, repo, f, model.OrderStatusPending, 1)

	stats, err := repo.GetPlatformStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalSellers)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
	// 2 * 10.00 * 1.1 + 5.00 shipping
	assert.InDelta(t, 27.00, stats.TotalRevenue, 0.001)
}

func TestOrderRepository_GetMonthlyRevenue(t *testing.T) {
	testDB, repo := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	f := createOrderFixture(t, testDB)
	createTestOrder(t, repo, f, model.OrderStatusDelivered, 2)
	createTestOrder(t, repo, f, model.OrderStatusPending, 1)

	trend, err := repo.GetMonthlyRevenue(12)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, int64(1), trend[0].Orders)
	assert.InDelta(t, 27.00, trend[0].Revenue, 0.001)
}
