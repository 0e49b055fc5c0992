package service

import (
	"bytes"
	"fmt"

	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"github.com/sellio/sellio-backend/pkg/pricing"
	"github.com/xuri/excelize/v2"
)

const salesSheetName = "Sales"

type ReportService interface {
	SellerSalesReport(sellerID uint) ([]byte, string, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// SellerSalesReport renders the seller's order lines as an XLSX workbook.
// Returns the file bytes and a suggested filename.
func (s *reportService) SellerSalesReport(sellerID uint) ([]byte, string, error) {
	logger.Info("Generating seller sales report", map[string]interface{}{
		"seller_id": sellerID,
	})

	items, err := s.orderRepo.FindItemsBySellerID(sellerID)
	if err != nil {
		logger.Error("Failed to load order items for report", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet, err := f.NewSheet(salesSheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(sheet)
	f.DeleteSheet("Sheet1")

	headers := []string{"Order ID", "Date", "Product", "Quantity", "Unit Price", "Line Total", "Profit", "Order Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(salesSheetName, cell, h); err != nil {
			return nil, "", err
		}
	}

	var totalRevenue, totalProfit float64
	for row, item := range items {
		profit := pricing.Profit(item.PriceAtPurchase, item.Product.CostPrice, item.Quantity)
		values := []interface{}{
			item.OrderID,
			item.CreatedAt.Format("2006-01-02"),
			item.Product.Name,
			item.Quantity,
			item.PriceAtPurchase,
			item.TotalPrice,
			profit,
			string(item.Order.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(salesSheetName, cell, v); err != nil {
				return nil, "", err
			}
		}
		totalRevenue += item.TotalPrice
		totalProfit += profit
	}

	summaryRow := len(items) + 3
	f.SetCellValue(salesSheetName, fmt.Sprintf("A%d", summaryRow), "Totals")
	f.SetCellValue(salesSheetName, fmt.Sprintf("F%d", summaryRow), totalRevenue)
	f.SetCellValue(salesSheetName, fmt.Sprintf("G%d", summaryRow), totalProfit)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to render sales report workbook", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, "", err
	}

	filename := fmt.Sprintf("sales-report-%d.xlsx", sellerID)
	logger.Info("Seller sales report generated", map[string]interface{}{
		"seller_id": sellerID,
		"rows":      len(items),
	})
	return buf.Bytes(), filename, nil
}
