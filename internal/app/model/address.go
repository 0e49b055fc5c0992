package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Label      string         `gorm:"size:100;not null" json:"label"`
	Recipient  string         `gorm:"size:100;not null" json:"recipient"`
	Phone      string         `gorm:"size:30;not null" json:"phone"`
	ZipCode    string         `gorm:"size:10" json:"zip_code"`
	Street     string         `gorm:"type:text;not null" json:"street"`
	City       string         `gorm:"size:100;not null" json:"city"`
	State      string         `gorm:"size:100" json:"state"`
	IsDefault  bool           `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
