package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type UserStatus string

const (
	RoleUser   UserRole = "user"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"

	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `json:"phone"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	Status       UserStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Products  []Product  `gorm:"foreignKey:SellerID" json:"-"`
	Orders    []Order    `gorm:"foreignKey:UserID" json:"-"`
	Addresses []Address  `gorm:"foreignKey:UserID" json:"-"`
	CartItems []CartItem `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether s is one of the three marketplace roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
