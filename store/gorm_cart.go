package store

import (
	"context"

	"github.com/bazario-dev/marketplace-api/models"
)

func (s *GormStore) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) CartBySession(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) CartByID(ctx context.Context, id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&cart, "cart_id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) CreateCart(ctx context.Context, c *models.Cart) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *GormStore) DeleteCart(ctx context.Context, cartID uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return translate(err)
	}
	return translate(db.Delete(&models.Cart{}, "cart_id = ?", cartID).Error)
}

func (s *GormStore) CartItemByID(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) CartItem(ctx context.Context, cartID, variantID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).
		Where("cart_id = ? AND variant_id = ?", cartID, variantID).
		First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *GormStore) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *GormStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return translate(s.db.WithContext(ctx).Save(item).Error)
}

func (s *GormStore) DeleteCartItem(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountCartItems(ctx context.Context, cartID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).Count(&count).Error
	return count, translate(err)
}
