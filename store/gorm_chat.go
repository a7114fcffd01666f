package store

import (
	"context"

	"github.com/bazario-dev/marketplace-api/models"
)

func (s *GormStore) ConversationByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (s *GormStore) ConversationFor(ctx context.Context, userID string, shopID uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		First(&conv).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (s *GormStore) CreateConversation(ctx context.Context, c *models.Conversation) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) ConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, translate(err)
}

func (s *GormStore) ConversationsByShop(ctx context.Context, shopID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, translate(err)
}

func (s *GormStore) MessagesByConversation(ctx context.Context, convID uint, limit, offset int) ([]models.Message, error) {
	db := s.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC")
	if limit > 0 {
		db = db.Limit(limit).Offset(offset)
	}
	var msgs []models.Message
	err := db.Find(&msgs).Error
	return msgs, translate(err)
}

func (s *GormStore) CreateMessage(ctx context.Context, m *models.Message) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}
