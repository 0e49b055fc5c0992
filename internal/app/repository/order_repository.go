package repository

import (
	"time"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

// SellerStats aggregates a seller's slice of the order book. Revenue and
// profit count delivered orders only; cancelled orders never contribute.
type SellerStats struct {
	TotalProducts   int64   `json:"total_products"`
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	ConfirmedOrders int64   `json:"confirmed_orders"`
	ShippedOrders   int64   `json:"shipped_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalProfit     float64 `json:"total_profit"`
	UnitsSold       int64   `json:"units_sold"`
}

// PlatformStats aggregates marketplace-wide figures for the admin dashboard.
type PlatformStats struct {
	TotalUsers      int64   `json:"total_users"`
	TotalSellers    int64   `json:"total_sellers"`
	TotalProducts   int64   `json:"total_products"`
	TotalCategories int64   `json:"total_categories"`
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// MonthlyRevenue is one bucket of the revenue trend, keyed "YYYY-MM".
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindAll(status string, limit, offset int) ([]model.Order, int64, error)
	FindBySellerID(sellerID uint, status string) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	SellerHasItems(orderID, sellerID uint) (bool, error)
	GetSellerStats(sellerID uint) (*SellerStats, error)
	GetPlatformStats() (*PlatformStats, error)
	GetMonthlyRevenue(months int) ([]MonthlyRevenue, error)
	GetSellerMonthlyRevenue(sellerID uint, months int) ([]MonthlyRevenue, error)
	FindItemsBySellerID(sellerID uint) ([]model.OrderItem, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	}).Preload("User").Preload("ShippingAddress")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(status string, limit, offset int) ([]model.Order, int64, error) {
	logger.Debug("Finding all orders in database", map[string]interface{}{
		"status": status,
		"limit":  limit,
		"offset": offset,
	})

	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return nil, 0, err
	}

	listQuery := r.preloadOrder()
	if status != "" {
		listQuery = listQuery.Where("status = ?", status)
	}
	listQuery = listQuery.Order("created_at DESC")
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}
	if offset > 0 {
		listQuery = listQuery.Offset(offset)
	}

	var orders []model.Order
	if err := listQuery.Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err)
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) FindBySellerID(sellerID uint, status string) ([]model.Order, error) {
	logger.Debug("Finding orders by seller ID in database", map[string]interface{}{
		"seller_id": sellerID,
		"status":    status,
	})

	query := r.db.Model(&model.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.seller_id = ?", sellerID).
		Group("orders.id")

	if status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var orderIDs []uint
	if err := query.Pluck("orders.id", &orderIDs).Error; err != nil {
		logger.Error("Failed to find order IDs by seller ID in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []model.Order{}, nil
	}

	var orders []model.Order
	if err := r.preloadOrder().Where("id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by seller ID in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	logger.Debug("Orders found by seller ID in database", map[string]interface{}{
		"seller_id": sellerID,
		"count":     len(orders),
	})
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	return nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	return nil
}

// SellerHasItems reports whether at least one line of the order belongs to
// the seller. Sellers may only act on orders they participate in.
func (r *orderRepository) SellerHasItems(orderID, sellerID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.OrderItem{}).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to check seller order items in database", err, map[string]interface{}{
			"order_id":  orderID,
			"seller_id": sellerID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepository) GetSellerStats(sellerID uint) (*SellerStats, error) {
	logger.Debug("Getting seller statistics in database", map[string]interface{}{
		"seller_id": sellerID,
	})

	stats := &SellerStats{}

	if err := r.db.Model(&model.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&stats.TotalProducts).Error; err != nil {
		logger.Error("Failed to count seller products", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	baseQuery := r.db.Model(&model.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.seller_id = ?", sellerID)

	if err := baseQuery.Session(&gorm.Session{}).
		Distinct("orders.id").
		Count(&stats.TotalOrders).Error; err != nil {
		logger.Error("Failed to count seller orders", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := baseQuery.Session(&gorm.Session{}).
		Select("orders.status, COUNT(DISTINCT orders.id) as count").
		Group("orders.status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count seller orders by status", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case model.OrderStatusPending:
			stats.PendingOrders = sc.Count
		case model.OrderStatusConfirmed:
			stats.ConfirmedOrders = sc.Count
		case model.OrderStatusShipped:
			stats.ShippedOrders = sc.Count
		case model.OrderStatusDelivered:
			stats.DeliveredOrders = sc.Count
		case model.OrderStatusCancelled:
			stats.CancelledOrders = sc.Count
		}
	}

	// Revenue: sum of this seller's line totals in delivered orders.
	// Profit: line revenue minus the product's current cost price.
	var earnings struct {
		Revenue float64
		Profit  float64
		Units   int64
	}
	if err := r.db.Model(&model.OrderItem{}).
		Select("COALESCE(SUM(order_items.total_price), 0) as revenue, " +
			"COALESCE(SUM((order_items.price_at_purchase - products.cost_price) * order_items.quantity), 0) as profit, " +
			"COALESCE(SUM(order_items.quantity), 0) as units").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, model.OrderStatusDelivered).
		Scan(&earnings).Error; err != nil {
		logger.Error("Failed to calculate seller earnings", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}
	stats.TotalRevenue = earnings.Revenue
	stats.TotalProfit = earnings.Profit
	stats.UnitsSold = earnings.Units

	logger.Debug("Seller statistics retrieved", map[string]interface{}{
		"seller_id":     sellerID,
		"total_orders":  stats.TotalOrders,
		"total_revenue": stats.TotalRevenue,
	})
	return stats, nil
}

func (r *orderRepository) GetPlatformStats() (*PlatformStats, error) {
	logger.Debug("Getting platform statistics in database")

	stats := &PlatformStats{}

	if err := r.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		logger.Error("Failed to count users", err)
		return nil, err
	}
	if err := r.db.Model(&model.User{}).
		Where("role = ?", model.RoleSeller).
		Count(&stats.TotalSellers).Error; err != nil {
		logger.Error("Failed to count sellers", err)
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, err
	}
	if err := r.db.Model(&model.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		logger.Error("Failed to count categories", err)
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		logger.Error("Failed to count pending orders", err)
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		logger.Error("Failed to count delivered orders", err)
		return nil, err
	}
	if err := r.db.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCancelled).
		Count(&stats.CancelledOrders).Error; err != nil {
		logger.Error("Failed to count cancelled orders", err)
		return nil, err
	}

	var revenueResult struct {
		TotalRevenue float64
	}
	if err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total_revenue").
		Where("status = ?", model.OrderStatusDelivered).
		Scan(&revenueResult).Error; err != nil {
		logger.Error("Failed to calculate platform revenue", err)
		return nil, err
	}
	stats.TotalRevenue = revenueResult.TotalRevenue

	logger.Debug("Platform statistics retrieved", map[string]interface{}{
		"total_orders":  stats.TotalOrders,
		"total_revenue": stats.TotalRevenue,
	})
	return stats, nil
}

// GetMonthlyRevenue buckets delivered-order revenue by creation month.
// Month grouping happens in Go; SQLite and Postgres disagree on date
// formatting functions.
func (r *orderRepository) GetMonthlyRevenue(months int) ([]MonthlyRevenue, error) {
	logger.Debug("Getting monthly revenue in database", map[string]interface{}{
		"months": months,
	})

	var orders []model.Order
	if err := r.db.Model(&model.Order{}).
		Select("created_at, total_amount").
		Where("status = ?", model.OrderStatusDelivered).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to load delivered orders for revenue trend", err)
		return nil, err
	}

	buckets := map[string]*MonthlyRevenue{}
	var keys []string
	for _, o := range orders {
		key := o.CreatedAt.Format("2006-01")
		if _, ok := buckets[key]; !ok {
			buckets[key] = &MonthlyRevenue{Month: key}
			keys = append(keys, key)
		}
		buckets[key].Revenue += o.TotalAmount
		buckets[key].Orders++
	}

	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	result := make([]MonthlyRevenue, 0, len(keys))
	for _, key := range keys {
		result = append(result, *buckets[key])
	}

	logger.Debug("Monthly revenue retrieved", map[string]interface{}{
		"bucket_count": len(result),
	})
	return result, nil
}

// GetSellerMonthlyRevenue buckets a single seller's delivered line totals by
// month. Only that seller's order_items contribute; an order counts once per
// month even when it holds several of the seller's lines.
func (r *orderRepository) GetSellerMonthlyRevenue(sellerID uint, months int) ([]MonthlyRevenue, error) {
	logger.Debug("Getting seller monthly revenue in database", map[string]interface{}{
		"seller_id": sellerID,
		"months":    months,
	})

	var lines []struct {
		OrderID    uint
		CreatedAt  time.Time
		TotalPrice float64
	}
	if err := r.db.Model(&model.OrderItem{}).
		Select("order_items.order_id, orders.created_at, order_items.total_price").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, model.OrderStatusDelivered).
		Order("orders.created_at ASC").
		Scan(&lines).Error; err != nil {
		logger.Error("Failed to load delivered lines for seller revenue trend", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	buckets := map[string]*MonthlyRevenue{}
	counted := map[string]map[uint]bool{}
	var keys []string
	for _, line := range lines {
		key := line.CreatedAt.Format("2006-01")
		if _, ok := buckets[key]; !ok {
			buckets[key] = &MonthlyRevenue{Month: key}
			counted[key] = map[uint]bool{}
			keys = append(keys, key)
		}
		buckets[key].Revenue += line.TotalPrice
		if !counted[key][line.OrderID] {
			counted[key][line.OrderID] = true
			buckets[key].Orders++
		}
	}

	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	result := make([]MonthlyRevenue, 0, len(keys))
	for _, key := range keys {
		result = append(result, *buckets[key])
	}

	logger.Debug("Seller monthly revenue retrieved", map[string]interface{}{
		"seller_id":    sellerID,
		"bucket_count": len(result),
	})
	return result, nil
}

func (r *orderRepository) FindItemsBySellerID(sellerID uint) ([]model.OrderItem, error) {
	logger.Debug("Finding order items by seller ID in database", map[string]interface{}{
		"seller_id": sellerID,
	})

	var items []model.OrderItem
	if err := r.db.Preload("Product").Preload("Order").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find order items by seller ID in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	return items, nil
}
