package repository

import (
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows admin user listings. Empty fields mean "no constraint".
type UserFilter struct {
	Role   model.UserRole
	Status model.UserStatus
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(filter UserFilter) ([]model.User, int64, error)
	CountByRole(role model.UserRole) (int64, error)
	Update(user *model.User) error
	UpdateRole(id uint, role model.UserRole) error
	UpdateStatus(id uint, status model.UserStatus) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		logger.Error("Failed to find user by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(filter UserFilter) ([]model.User, int64, error) {
	logger.Debug("Finding all users in database", map[string]interface{}{
		"role":   filter.Role,
		"status": filter.Status,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})

	query := r.db.Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count users in database", err)
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to find users in database", err)
		return nil, 0, err
	}

	logger.Debug("Users found in database", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, total, nil
}

func (r *userRepository) CountByRole(role model.UserRole) (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		logger.Error("Failed to count users by role in database", err, map[string]interface{}{
			"role": role,
		})
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return err
	}

	return nil
}

func (r *userRepository) UpdateRole(id uint, role model.UserRole) error {
	logger.Debug("Updating user role in database", map[string]interface{}{
		"user_id": id,
		"role":    role,
	})

	if err := r.db.Model(&model.User{}).Where("id = ?", id).
		Update("role", role).Error; err != nil {
		logger.Error("Failed to update user role in database", err, map[string]interface{}{
			"user_id": id,
			"role":    role,
		})
		return err
	}

	return nil
}

func (r *userRepository) UpdateStatus(id uint, status model.UserStatus) error {
	logger.Debug("Updating user status in database", map[string]interface{}{
		"user_id": id,
		"status":  status,
	})

	if err := r.db.Model(&model.User{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update user status in database", err, map[string]interface{}{
			"user_id": id,
			"status":  status,
		})
		return err
	}

	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	return nil
}
