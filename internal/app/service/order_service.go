package service

import (
	"errors"
	"fmt"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"github.com/sellio/sellio-backend/pkg/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrAddressNotFound     = errors.New("shipping address not found")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidTransition   = errors.New("order status transition not allowed")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderAccessDenied   = errors.New("order does not involve this seller")
)

type OrderService interface {
	PlaceOrder(userID, shippingAddressID uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(actor Actor, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	UpdateStatus(actor Actor, orderID uint, newStatus model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		db:          db,
	}
}

// PlaceOrder converts the user's cart into an order. Stock is re-checked
// under row locks inside the transaction; the earlier cart-time check only
// improves error messages, this one is authoritative.
func (s *orderService) PlaceOrder(userID, shippingAddressID uint) (*model.Order, error) {
	logger.Info("Placing order from cart", map[string]interface{}{
		"user_id":    userID,
		"address_id": shippingAddressID,
	})

	address, err := s.addressRepo.FindByID(shippingAddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order placement failed: address not found", map[string]interface{}{
				"address_id": shippingAddressID,
			})
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Order placement failed: address ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": shippingAddressID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressNotFound
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(cartItems) == 0 {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		orderItems []model.OrderItem
		lines      []pricing.Line
	)

	for _, cartItem := range cartItems {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order placement", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order placement", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if product.StockQuantity < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
				"requested":  cartItem.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		lineTotal := pricing.LineTotal(product.Price, cartItem.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			ProductID:       product.ID,
			SellerID:        product.SellerID,
			Quantity:        cartItem.Quantity,
			PriceAtPurchase: product.Price,
			TotalPrice:      lineTotal,
		})
		lines = append(lines, pricing.Line{
			UnitPrice: product.Price,
			Quantity:  cartItem.Quantity,
		})

		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity - ?", cartItem.Quantity),
				"sold_count":     gorm.Expr("sold_count + ?", cartItem.Quantity),
			}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to update product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	quote := pricing.QuoteOrder(lines)

	order := &model.Order{
		UserID:            userID,
		ShippingAddressID: shippingAddressID,
		Status:            model.OrderStatusPending,
		Subtotal:          quote.Subtotal,
		TaxAmount:         quote.TaxAmount,
		ShippingFee:       quote.ShippingFee,
		TotalAmount:       quote.Total,
		OrderItems:        orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": quote.Total,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": quote.Total,
		"item_count":   len(orderItems),
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

// GetOrderByID enforces visibility per role: customers see their own orders,
// sellers orders containing their items, admins everything.
func (s *orderService) GetOrderByID(actor Actor, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"order_id": orderID,
		"actor_id": actor.UserID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case actor.IsSeller():
		has, err := s.orderRepo.SellerHasItems(orderID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !has && order.UserID != actor.UserID {
			logger.Warn("Order access denied for seller", map[string]interface{}{
				"order_id":  orderID,
				"seller_id": actor.UserID,
			})
			return nil, ErrOrderNotFound
		}
	default:
		if order.UserID != actor.UserID {
			logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
				"order_id": orderID,
				"user_id":  actor.UserID,
				"owner_id": order.UserID,
			})
			return nil, ErrOrderNotFound
		}
	}

	return order, nil
}

// CancelOrder is the customer-facing cancellation: own order, pending only.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	logger.Info("Customer cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		logger.Warn("Cancellation denied: ownership mismatch", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	if order.Status != model.OrderStatusPending {
		logger.Warn("Cancellation denied: order already in progress", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	if err := s.cancelWithRestock(order); err != nil {
		return nil, err
	}

	logger.Info("Order cancelled by customer", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return s.orderRepo.FindByID(orderID)
}

// UpdateStatus applies a guarded status transition. Same-status updates are
// accepted as no-ops. Any transition into cancelled restores inventory.
func (s *orderService) UpdateStatus(actor Actor, orderID uint, newStatus model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": newStatus,
		"actor_id":   actor.UserID,
		"actor_role": actor.Role,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Sellers may only manage orders that contain at least one of their
	// items. Admins manage any order.
	if !actor.IsAdmin() {
		has, err := s.orderRepo.SellerHasItems(orderID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !has {
			logger.Warn("Status update denied: seller has no items in order", map[string]interface{}{
				"order_id":  orderID,
				"seller_id": actor.UserID,
			})
			return nil, ErrOrderAccessDenied
		}
	}

	if order.Status == newStatus {
		logger.Debug("Status unchanged, accepting as no-op", map[string]interface{}{
			"order_id": orderID,
			"status":   newStatus,
		})
		return order, nil
	}

	if !model.CanTransition(order.Status, newStatus) {
		logger.Warn("Status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       newStatus,
		})
		return nil, ErrInvalidTransition
	}

	if newStatus == model.OrderStatusCancelled {
		if err := s.cancelWithRestock(order); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateStatus(orderID, newStatus); err != nil {
			return nil, err
		}
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
		"to":       newStatus,
	})
	return s.orderRepo.FindByID(orderID)
}

// cancelWithRestock flips the order to cancelled and returns each line's
// quantity to product stock in one transaction. sold_count floors at zero;
// the arithmetic runs in Go on locked rows so both database drivers behave
// identically.
func (s *orderService) cancelWithRestock(order *model.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read the status under lock. The caller's check ran outside
		// this transaction, so a concurrent cancel may have won the race;
		// restocking must happen at most once per order.
		var current model.Order
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, order.ID).Error; err != nil {
			return err
		}
		if current.Status == model.OrderStatusCancelled {
			logger.Debug("Order already cancelled, skipping restock", map[string]interface{}{
				"order_id": order.ID,
			})
			return nil
		}
		if !model.CanTransition(current.Status, model.OrderStatusCancelled) {
			return ErrOrderNotCancellable
		}

		for _, item := range order.OrderItems {
			var product model.Product
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Product removed since purchase; nothing to restock
					logger.Warn("Product missing during restock", map[string]interface{}{
						"order_id":   order.ID,
						"product_id": item.ProductID,
					})
					continue
				}
				return err
			}

			soldCount := product.SoldCount - item.Quantity
			if soldCount < 0 {
				soldCount = 0
			}

			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity + ?", item.Quantity),
					"sold_count":     soldCount,
				}).Error; err != nil {
				logger.Error("Failed to restock product during cancellation", err, map[string]interface{}{
					"order_id":   order.ID,
					"product_id": product.ID,
				})
				return err
			}
		}

		if err := tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("status", model.OrderStatusCancelled).Error; err != nil {
			logger.Error("Failed to mark order cancelled", err, map[string]interface{}{
				"order_id": order.ID,
			})
			return err
		}

		return nil
	})
}
