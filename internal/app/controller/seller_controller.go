package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/service"
	apperrors "github.com/sellio/sellio-backend/internal/errors"
	"github.com/sellio/sellio-backend/internal/middleware"
)

type SellerController struct {
	sellerService service.SellerService
	reportService service.ReportService
}

func NewSellerController(sellerService service.SellerService, reportService service.ReportService) *SellerController {
	return &SellerController{
		sellerService: sellerService,
		reportService: reportService,
	}
}

// GetDashboard returns the seller's stats, low-stock list and revenue trend
// GET /api/v1/seller/dashboard
func (ctrl *SellerController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	dashboard, err := ctrl.sellerService.GetDashboard(userID)
	if err != nil {
		log.Error("Failed to build seller dashboard", err, map[string]interface{}{
			"seller_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetProducts lists the seller's own products, including out-of-stock ones
// GET /api/v1/seller/products
func (ctrl *SellerController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	products, err := ctrl.sellerService.GetProducts(userID)
	if err != nil {
		log.Error("Failed to list seller products", err, map[string]interface{}{
			"seller_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// GetOrders lists orders containing the seller's products
// GET /api/v1/seller/orders
func (ctrl *SellerController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.sellerService.GetOrders(userID, c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
			return
		}
		log.Error("Failed to list seller orders", err, map[string]interface{}{
			"seller_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// ExportSalesReport streams the seller's sales history as an XLSX download
// GET /api/v1/seller/reports/sales
func (ctrl *SellerController) ExportSalesReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	content, filename, err := ctrl.reportService.SellerSalesReport(userID)
	if err != nil {
		log.Error("Failed to generate sales report", err, map[string]interface{}{
			"seller_id": userID,
		})
		apperrors.InternalError(c, "Could not generate the sales report")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
