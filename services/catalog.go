package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
	"github.com/bazario-dev/marketplace-api/store"
)

// CatalogService covers public browsing and vendor catalog management.
type CatalogService struct {
	store store.Store
	log   *logrus.Logger
}

func NewCatalogService(st store.Store, log *logrus.Logger) *CatalogService {
	return &CatalogService{store: st, log: log}
}

func (s *CatalogService) Products(ctx context.Context, shopID uint, limit, offset int) ([]models.Product, error) {
	return s.store.ListProducts(ctx, shopID, limit, offset)
}

func (s *CatalogService) Product(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) Shops(ctx context.Context) ([]models.Shop, error) {
	return s.store.ListShops(ctx)
}

func (s *CatalogService) Shop(ctx context.Context, id uint) (*models.Shop, error) {
	shop, err := s.store.ShopByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

// CreateProduct adds a product (with variants) to a shop the actor manages.
func (s *CatalogService) CreateProduct(ctx context.Context, actor policy.Actor, product *models.Product) error {
	shop, err := s.Shop(ctx, product.ShopID)
	if err != nil {
		return err
	}
	if !policy.CanManageShop(actor, shop) {
		return ErrForbidden
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"product_id": product.ID, "shop_id": shop.ID}).Info("product created")
	return nil
}

// UpdateProduct applies name/description/image changes; variants are managed
// through UpdateVariant.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor policy.Actor, id uint, name, description, image string) (*models.Product, error) {
	product, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	shop, err := s.Shop(ctx, product.ShopID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageShop(actor, shop) {
		return nil, ErrForbidden
	}

	if name != "" {
		product.Name = name
	}
	if description != "" {
		product.Description = description
	}
	if image != "" {
		product.Image = image
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor policy.Actor, id uint) error {
	product, err := s.Product(ctx, id)
	if err != nil {
		return err
	}
	shop, err := s.Shop(ctx, product.ShopID)
	if err != nil {
		return err
	}
	if !policy.CanManageShop(actor, shop) {
		return ErrForbidden
	}
	return s.store.DeleteProduct(ctx, id)
}

// VariantUpdate carries the fields a vendor may adjust; nil means unchanged.
type VariantUpdate struct {
	Price             *float64
	DiscountPrice     *float64
	Stock             *int
	LowStockThreshold *int
	WarehouseLocation *string
}

func (s *CatalogService) UpdateVariant(ctx context.Context, actor policy.Actor, variantID uint, upd VariantUpdate) (*models.ProductVariant, error) {
	variant, err := s.store.VariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	product, err := s.Product(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}
	shop, err := s.Shop(ctx, product.ShopID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageShop(actor, shop) {
		return nil, ErrForbidden
	}

	if upd.Price != nil {
		variant.Price = *upd.Price
	}
	if upd.DiscountPrice != nil {
		variant.DiscountPrice = *upd.DiscountPrice
	}
	if upd.Stock != nil {
		if *upd.Stock < 0 {
			return nil, ErrInvalidQuantity
		}
		variant.Stock = *upd.Stock
	}
	if upd.LowStockThreshold != nil {
		variant.LowStockThreshold = *upd.LowStockThreshold
	}
	if upd.WarehouseLocation != nil {
		variant.WarehouseLocation = *upd.WarehouseLocation
	}
	if err := s.store.SaveVariant(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// LowStock lists the shop's variants at or below their low-stock threshold.
func (s *CatalogService) LowStock(ctx context.Context, actor policy.Actor, shopID uint) ([]models.ProductVariant, error) {
	shop, err := s.Shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageShop(actor, shop) {
		return nil, ErrForbidden
	}
	return s.store.LowStockVariants(ctx, shopID)
}
