package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID      uint             `gorm:"index;not null" json:"shop_id"`
	Name        string           `gorm:"not null" json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	SalesCount  int              `gorm:"default:0" json:"sales_count"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant is the sellable unit. Stock must never go negative; it is
// decremented only inside the order-creation transaction, never by carts.
type ProductVariant struct {
	ID                uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         uint               `gorm:"index;not null" json:"product_id"`
	Barcode           string             `gorm:"index" json:"barcode"`
	Price             float64            `gorm:"not null" json:"price"`
	DiscountPrice     float64            `json:"discount_price"`
	Stock             int                `gorm:"default:0" json:"stock"`
	LowStockThreshold int                `gorm:"default:5" json:"low_stock_threshold"`
	WarehouseLocation string             `json:"warehouse_location"`
	Attributes        []VariantAttribute `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"attributes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// VariantAttribute is one attribute-value assignment, e.g. color=red.
type VariantAttribute struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID uint   `gorm:"index;uniqueIndex:idx_variant_attr" json:"variant_id"`
	Name      string `gorm:"uniqueIndex:idx_variant_attr;not null" json:"name"`
	Value     string `gorm:"not null" json:"value"`
}
