package models

import "time"

// Conversation is a user <-> shop thread. One per pair.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;uniqueIndex:idx_user_shop;not null" json:"user_id"`
	ShopID    uint      `gorm:"uniqueIndex:idx_user_shop;not null" json:"shop_id"`
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index" json:"conversation_id"`
	SenderID       string    `gorm:"not null" json:"sender_id"`
	Body           string    `gorm:"not null" json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
