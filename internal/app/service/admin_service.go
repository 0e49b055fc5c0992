package service

import (
	"errors"

	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole    = errors.New("invalid user role")
	ErrSelfRoleChange = errors.New("cannot change your own role")
)

// AdminDashboard combines platform stats with the revenue trend for the
// admin landing page.
type AdminDashboard struct {
	Stats        *repository.PlatformStats   `json:"stats"`
	RevenueTrend []repository.MonthlyRevenue `json:"revenue_trend"`
}

type AdminService interface {
	GetDashboard() (*AdminDashboard, error)
	ListUsers(role, status string, limit, offset int) ([]model.User, int64, error)
	UpdateUserRole(actor Actor, userID uint, role string) (*model.User, error)
	UpdateUserStatus(actor Actor, userID uint, status model.UserStatus) (*model.User, error)
	ListOrders(status string, limit, offset int) ([]model.Order, int64, error)
}

type adminService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
) AdminService {
	return &adminService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

func (s *adminService) GetDashboard() (*AdminDashboard, error) {
	logger.Debug("Building admin dashboard")

	stats, err := s.orderRepo.GetPlatformStats()
	if err != nil {
		logger.Error("Failed to fetch platform stats", err)
		return nil, err
	}

	trend, err := s.orderRepo.GetMonthlyRevenue(12)
	if err != nil {
		logger.Error("Failed to fetch revenue trend", err)
		return nil, err
	}

	return &AdminDashboard{
		Stats:        stats,
		RevenueTrend: trend,
	}, nil
}

func (s *adminService) ListUsers(role, status string, limit, offset int) ([]model.User, int64, error) {
	logger.Debug("Listing users", map[string]interface{}{
		"role":   role,
		"status": status,
		"limit":  limit,
		"offset": offset,
	})

	if role != "" && !model.ValidRole(role) {
		return nil, 0, ErrInvalidRole
	}
	if status != "" && status != string(model.UserStatusActive) && status != string(model.UserStatusInactive) {
		return nil, 0, errors.New("invalid user status")
	}

	return s.userRepo.FindAll(repository.UserFilter{
		Role:   model.UserRole(role),
		Status: model.UserStatus(status),
		Limit:  limit,
		Offset: offset,
	})
}

// UpdateUserRole grants or revokes roles. Admins cannot change their own
// role; that keeps the platform from locking out its last administrator.
func (s *adminService) UpdateUserRole(actor Actor, userID uint, role string) (*model.User, error) {
	logger.Info("Updating user role", map[string]interface{}{
		"user_id":  userID,
		"role":     role,
		"actor_id": actor.UserID,
	})

	if !model.ValidRole(role) {
		logger.Warn("Role update rejected: unknown role", map[string]interface{}{
			"role": role,
		})
		return nil, ErrInvalidRole
	}
	if userID == actor.UserID {
		logger.Warn("Role update rejected: self role change", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrSelfRoleChange
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateRole(userID, model.UserRole(role)); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return nil, err
	}

	logger.Info("User role updated successfully", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return s.userRepo.FindByID(userID)
}

func (s *adminService) UpdateUserStatus(actor Actor, userID uint, status model.UserStatus) (*model.User, error) {
	logger.Info("Updating user status", map[string]interface{}{
		"user_id":  userID,
		"status":   status,
		"actor_id": actor.UserID,
	})

	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return nil, errors.New("invalid user status")
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		logger.Error("Failed to update user status", err, map[string]interface{}{
			"user_id": userID,
			"status":  status,
		})
		return nil, err
	}

	logger.Info("User status updated successfully", map[string]interface{}{
		"user_id": userID,
		"status":  status,
	})
	return s.userRepo.FindByID(userID)
}

func (s *adminService) ListOrders(status string, limit, offset int) ([]model.Order, int64, error) {
	logger.Debug("Listing all orders", map[string]interface{}{
		"status": status,
		"limit":  limit,
		"offset": offset,
	})

	if status != "" {
		if _, ok := model.ParseOrderStatus(status); !ok {
			return nil, 0, ErrInvalidStatus
		}
	}

	return s.orderRepo.FindAll(status, limit, offset)
}
