package service

import (
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
)

// SellerDashboard is everything the seller landing page needs in one
// response: aggregate stats plus low-stock products needing attention.
type SellerDashboard struct {
	Stats            *repository.SellerStats     `json:"stats"`
	LowStockProducts []model.Product             `json:"low_stock_products"`
	RevenueTrend     []repository.MonthlyRevenue `json:"revenue_trend"`
}

type SellerService interface {
	GetDashboard(sellerID uint) (*SellerDashboard, error)
	GetProducts(sellerID uint) ([]model.Product, error)
	GetOrders(sellerID uint, status string) ([]model.Order, error)
}

type sellerService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewSellerService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) SellerService {
	return &sellerService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *sellerService) GetDashboard(sellerID uint) (*SellerDashboard, error) {
	logger.Debug("Building seller dashboard", map[string]interface{}{
		"seller_id": sellerID,
	})

	stats, err := s.orderRepo.GetSellerStats(sellerID)
	if err != nil {
		logger.Error("Failed to fetch seller stats", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	products, err := s.productRepo.FindBySellerID(sellerID)
	if err != nil {
		logger.Error("Failed to fetch seller products", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	lowStock := make([]model.Product, 0)
	for _, p := range products {
		if p.LowStock() || p.OutOfStock() {
			lowStock = append(lowStock, p)
		}
	}

	trend, err := s.orderRepo.GetSellerMonthlyRevenue(sellerID, 12)
	if err != nil {
		logger.Error("Failed to fetch revenue trend", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	logger.Info("Seller dashboard built", map[string]interface{}{
		"seller_id":       sellerID,
		"total_orders":    stats.TotalOrders,
		"low_stock_count": len(lowStock),
	})

	return &SellerDashboard{
		Stats:            stats,
		LowStockProducts: lowStock,
		RevenueTrend:     trend,
	}, nil
}

func (s *sellerService) GetProducts(sellerID uint) ([]model.Product, error) {
	logger.Debug("Fetching seller products", map[string]interface{}{
		"seller_id": sellerID,
	})

	return s.productRepo.FindBySellerID(sellerID)
}

func (s *sellerService) GetOrders(sellerID uint, status string) ([]model.Order, error) {
	logger.Debug("Fetching seller orders", map[string]interface{}{
		"seller_id": sellerID,
		"status":    status,
	})

	if status != "" {
		if _, ok := model.ParseOrderStatus(status); !ok {
			return nil, ErrInvalidStatus
		}
	}

	return s.orderRepo.FindBySellerID(sellerID, status)
}
