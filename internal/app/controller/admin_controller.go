package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/service"
	apperrors "github.com/sellio/sellio-backend/internal/errors"
	"github.com/sellio/sellio-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetDashboard returns platform-wide stats and the revenue trend
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	dashboard, err := ctrl.adminService.GetDashboard()
	if err != nil {
		log.Error("Failed to build admin dashboard", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListUsers returns accounts with optional role/status filters and pagination
// GET /api/v1/admin/users?role=seller&status=active
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	users, total, err := ctrl.adminService.ListUsers(c.Query("role"), c.Query("status"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown role filter")
			return
		}
		log.Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateUserRole grants or revokes a user's role
// PUT /api/v1/admin/users/:id/role
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user ID")
		return
	}

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A role is required")
		return
	}

	user, err := ctrl.adminService.UpdateUserRole(actor, userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.AuthzRoleNotFound, "Unknown role")
		case errors.Is(err, service.ErrSelfRoleChange):
			apperrors.Conflict(c, apperrors.AuthzSelfRole, "You cannot change your own role")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Failed to update user role", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	log.Info("User role updated", map[string]interface{}{
		"user_id":  userID,
		"role":     user.Role,
		"actor_id": actor.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated",
		"user":    userPayload(user),
	})
}

// UpdateUserStatus activates or deactivates an account
// PUT /api/v1/admin/users/:id/status
func (ctrl *AdminController) UpdateUserStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := pathID(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user ID")
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A status is required")
		return
	}

	user, err := ctrl.adminService.UpdateUserStatus(actor, userID, model.UserStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to update user status", err, map[string]interface{}{
			"user_id": userID,
			"status":  req.Status,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status must be active or inactive")
		return
	}

	log.Info("User status updated", map[string]interface{}{
		"user_id":  userID,
		"status":   user.Status,
		"actor_id": actor.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated",
		"user":    userPayload(user),
	})
}

// ListOrders returns all orders across the platform
// GET /api/v1/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := paginationParams(c)
	orders, total, err := ctrl.adminService.ListOrders(c.Query("status"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
			return
		}
		log.Error("Failed to list orders", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
