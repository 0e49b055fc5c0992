package db

import (
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/pkg/logger"
	"github.com/sellio/sellio-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Address{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the bootstrap admin account and root categories when the
// database is empty.
func Seed() error {
	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}
	if err := seedRootCategories(); err != nil {
		logger.Error("Failed to seed root categories", err)
		return err
	}
	return nil
}

func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin account already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        "admin@sellio.local",
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin account seeded", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return nil
}

func seedRootCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	names := []string{
		"Electronics",
		"Clothing",
		"Home & Garden",
		"Books",
		"Sports & Outdoors",
	}

	var admin model.User
	if err := DB.Where("role = ?", model.RoleAdmin).First(&admin).Error; err != nil {
		return err
	}

	totalInserted := 0
	for _, name := range names {
		category := model.Category{
			Name:      name,
			CreatedBy: admin.ID,
		}
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Root categories seeded", map[string]interface{}{
		"total_categories": totalInserted,
	})
	return nil
}
