package store

import (
	"context"
	"time"

	"github.com/bazario-dev/marketplace-api/models"
)

func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *GormStore) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) OrderByRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		Where("order_ref = ?", ref).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err)
}

func (s *GormStore) SaveOrder(ctx context.Context, o *models.Order) error {
	return translate(s.db.WithContext(ctx).Save(o).Error)
}

func (s *GormStore) OrdersBetween(ctx context.Context, shopID uint, from, to time.Time) ([]models.Order, error) {
	db := s.db.WithContext(ctx).Preload("Items").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to)
	if shopID != 0 {
		db = db.
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("order_items.shop_id = ?", shopID).
			Distinct("orders.*")
	}
	var orders []models.Order
	err := db.Order("orders.created_at ASC").Find(&orders).Error
	return orders, translate(err)
}

// -------- Transactions --------

func (s *GormStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *GormStore) TransactionByOrder(ctx context.Context, orderID uint) (*models.Transaction, error) {
	var tr models.Transaction
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).First(&tr).Error; err != nil {
		return nil, translate(err)
	}
	return &tr, nil
}

func (s *GormStore) TransactionByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	var tr models.Transaction
	if err := s.db.WithContext(ctx).
		Where("reference = ?", ref).First(&tr).Error; err != nil {
		return nil, translate(err)
	}
	return &tr, nil
}

func (s *GormStore) SaveTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Save(t).Error)
}

// -------- Shipments --------

func (s *GormStore) ShipmentByOrder(ctx context.Context, orderID uint) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).First(&shipment).Error; err != nil {
		return nil, translate(err)
	}
	return &shipment, nil
}

func (s *GormStore) CreateShipment(ctx context.Context, sh *models.Shipment) error {
	return translate(s.db.WithContext(ctx).Create(sh).Error)
}

func (s *GormStore) SaveShipment(ctx context.Context, sh *models.Shipment) error {
	return translate(s.db.WithContext(ctx).Save(sh).Error)
}

// -------- Returns --------

func (s *GormStore) ReturnRequestByOrder(ctx context.Context, orderID uint) (*models.ReturnRequest, error) {
	var req models.ReturnRequest
	if err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).First(&req).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *GormStore) CreateReturnRequest(ctx context.Context, r *models.ReturnRequest) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}
