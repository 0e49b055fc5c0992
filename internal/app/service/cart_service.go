package service

import (
	"errors"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"github.com/sellio/sellio-backend/pkg/pricing"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartSummary is the cart plus the running totals every cart mutation
// returns, so clients can update badges without a second request.
type CartSummary struct {
	Items     []model.CartItem `json:"items"`
	CartCount int              `json:"cart_count"`
	Quote     pricing.Quote    `json:"quote"`
}

type CartService interface {
	GetCart(userID uint) (*CartSummary, error)
	AddItem(userID, productID uint, quantity int) (*CartSummary, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*CartSummary, error)
	RemoveItem(userID, itemID uint) (*CartSummary, error)
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})

	return s.summarize(userID)
}

// AddItem puts a product in the cart, merging with an existing line for the
// same product. The merged quantity is capped by available stock.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*CartSummary, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.StockQuantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  requested,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = requested
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
	} else {
		cartItem := &model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(cartItem); err != nil {
			return nil, err
		}
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return s.summarize(userID)
}

func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*CartSummary, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity > item.Product.StockQuantity {
		logger.Warn("Cannot update cart line: insufficient stock", map[string]interface{}{
			"cart_item_id": itemID,
			"requested":    quantity,
			"available":    item.Product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}

	return s.summarize(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*CartSummary, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	if _, err := s.ownedItem(userID, itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Delete(itemID); err != nil {
		return nil, err
	}

	return s.summarize(userID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	return s.cartRepo.DeleteByUserID(userID)
}

func (s *cartService) ownedItem(userID, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"cart_item_id": itemID,
			"user_id":      userID,
			"owner_id":     item.UserID,
		})
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *cartService) summarize(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	count := 0
	for _, item := range items {
		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
		count += item.Quantity
	}

	summary := &CartSummary{
		Items:     items,
		CartCount: count,
	}
	// An empty cart quotes zero; no shipping fee on nothing.
	if len(lines) > 0 {
		summary.Quote = pricing.QuoteOrder(lines)
	}
	return summary, nil
}
