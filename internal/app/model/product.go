package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`
	CategoryID    *uint          `gorm:"index" json:"category_id,omitempty"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	CostPrice     float64        `gorm:"not null;default:0" json:"cost_price"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	SoldCount     int            `gorm:"not null;default:0" json:"sold_count"`
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	MainImageURL  string         `json:"main_image_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Seller   User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Category *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`

	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// LowStockThreshold bounds the "low stock" catalog bucket. The buckets are
// derived from stock_quantity, never stored.
const LowStockThreshold = 5

func (p *Product) OutOfStock() bool {
	return p.StockQuantity == 0
}

func (p *Product) LowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= LowStockThreshold
}
