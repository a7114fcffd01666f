package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bazario-dev/marketplace-api/models"
)

func (s *GormStore) ShopByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &shop, nil
}

func (s *GormStore) ListShops(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&shops).Error
	return shops, translate(err)
}

func (s *GormStore) ShopsByOwner(ctx context.Context, ownerID string) ([]models.Shop, error) {
	var shops []models.Shop
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&shops).Error
	return shops, translate(err)
}

func (s *GormStore) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.Attributes").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) ListProducts(ctx context.Context, shopID uint, limit, offset int) ([]models.Product, error) {
	db := s.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.Attributes").
		Order("created_at DESC")
	if shopID != 0 {
		db = db.Where("shop_id = ?", shopID)
	}
	if limit > 0 {
		db = db.Limit(limit).Offset(offset)
	}
	var products []models.Product
	err := db.Find(&products).Error
	return products, translate(err)
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *GormStore) SaveProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AddProductSales(ctx context.Context, productID uint, qty int) error {
	return translate(s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("sales_count", gorm.Expr("sales_count + ?", qty)).Error)
}

func (s *GormStore) VariantByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := s.db.WithContext(ctx).Preload("Attributes").
		First(&variant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &variant, nil
}

func (s *GormStore) VariantForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &variant, nil
}

func (s *GormStore) SaveVariant(ctx context.Context, v *models.ProductVariant) error {
	return translate(s.db.WithContext(ctx).Save(v).Error)
}

func (s *GormStore) LowStockVariants(ctx context.Context, shopID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := s.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("products.shop_id = ? AND product_variants.stock <= product_variants.low_stock_threshold", shopID).
		Find(&variants).Error
	return variants, translate(err)
}
