package models

import "time"

// Cart belongs to either an authenticated user or an anonymous session, never
// both. It is created lazily on first add and destroyed when converted to an
// order or merged away on login. The identity indexes are partial: the blank
// side of the pair is excluded so carts with the same absent identity never
// collide.
type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex:idx_carts_user,where:user_id <> ''" json:"user_id,omitempty"`
	SessionID string     `gorm:"uniqueIndex:idx_carts_session,where:session_id <> ''" json:"session_id,omitempty"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem holds one (variant, quantity) line. The (cart_id, variant_id)
// unique index is what resolves two concurrent adds to exactly one winner.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_variant" json:"cart_id"`
	VariantID uint      `gorm:"uniqueIndex:idx_cart_variant;not null" json:"variant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
