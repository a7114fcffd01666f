package models

import "time"

type Shop struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     string    `gorm:"index;not null" json:"owner_id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Products    []Product `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
