package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
	"github.com/bazario-dev/marketplace-api/store"
)

// ReturnWindow is how long after delivery a return may be filed.
const ReturnWindow = 4 * time.Hour

// Events receives post-commit notifications about completed orders.
// Implementations must not fail the request; delivery is best-effort.
type Events interface {
	OrderCreated(ctx context.Context, order *models.Order)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) OrderCreated(context.Context, *models.Order) {}

type OrderService struct {
	store  store.Store
	events Events
	log    *logrus.Logger
	now    func() time.Time
}

func NewOrderService(st store.Store, events Events, log *logrus.Logger) *OrderService {
	if events == nil {
		events = NopEvents{}
	}
	return &OrderService{store: st, events: events, log: log, now: time.Now}
}

// CreateOrderFromCart converts the cart into an immutable order inside one
// transaction: every variant is locked and re-validated, stock is decremented,
// the parent product's sales counter is bumped, a PENDING payment record is
// created and the cart is deleted. Any failure rolls all of it back, so an
// order can never oversell stock and a cart is never destroyed without its
// order existing.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID string, cartID uint) (*models.Order, error) {
	var order *models.Order

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.CartByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCartNotFound
			}
			return err
		}
		if cart.UserID != userID {
			return ErrNotCartOwner
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		var total float64
		var orderItems []models.OrderItem

		for _, item := range cart.Items {
			variant, err := tx.VariantForUpdate(ctx, item.VariantID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrVariantNotFound
				}
				return err
			}
			if variant.Stock < item.Quantity {
				return fmt.Errorf("%w: variant %d has %d left, cart wants %d",
					ErrInsufficientStock, variant.ID, variant.Stock, item.Quantity)
			}

			product, err := tx.ProductByID(ctx, variant.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			variant.Stock -= item.Quantity
			if err := tx.SaveVariant(ctx, variant); err != nil {
				return err
			}
			if err := tx.AddProductSales(ctx, product.ID, item.Quantity); err != nil {
				return err
			}

			// The base price is charged; DiscountPrice is display-only.
			total += variant.Price * float64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				VariantID:       variant.ID,
				ShopID:          product.ShopID,
				ProductName:     product.Name,
				Quantity:        item.Quantity,
				PriceAtPurchase: variant.Price,
			})
		}

		o := &models.Order{
			OrderRef:      generateOrderRef(),
			UserID:        userID,
			Items:         orderItems,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     s.now(),
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		if err := tx.CreateTransaction(ctx, &models.Transaction{
			OrderID: o.ID,
			Amount:  total,
			Status:  models.PaymentStatusPending,
		}); err != nil {
			return err
		}

		if err := tx.DeleteCart(ctx, cart.CartID); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"order_ref": order.OrderRef,
		"user_id":   userID,
		"total":     order.TotalAmount,
	}).Info("order created")

	s.events.OrderCreated(ctx, order)
	return order, nil
}

// UpdateStatus applies a policy-gated status change. No transition legality
// is enforced beyond the status being a known value; any known status is
// accepted once the actor is authorized. Marking an order shipped creates its
// shipment, marking it delivered stamps the delivery time the return window
// is measured from.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, actor policy.Actor) (*models.Order, error) {
	if !models.KnownOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		o, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !policy.CanModifyOrder(actor, o) {
			return ErrForbidden
		}

		o.Status = status
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		switch status {
		case models.OrderStatusShipped:
			if err := s.ensureShipment(ctx, tx, o.ID, nil); err != nil {
				return err
			}
		case models.OrderStatusDelivered:
			deliveredAt := s.now()
			if err := s.ensureShipment(ctx, tx, o.ID, &deliveredAt); err != nil {
				return err
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   status,
		"actor":    actor.UserID,
	}).Info("order status updated")
	return order, nil
}

func (s *OrderService) ensureShipment(ctx context.Context, tx store.Store, orderID uint, deliveredAt *time.Time) error {
	shipment, err := tx.ShipmentByOrder(ctx, orderID)
	switch {
	case err == nil:
		if deliveredAt != nil && shipment.DeliveredAt == nil {
			shipment.DeliveredAt = deliveredAt
			return tx.SaveShipment(ctx, shipment)
		}
		return nil
	case errors.Is(err, store.ErrNotFound):
		return tx.CreateShipment(ctx, &models.Shipment{OrderID: orderID, DeliveredAt: deliveredAt})
	default:
		return err
	}
}

// RequestReturn files the one allowed return for an order: owner only, from
// DELIVERED only, within the window after the recorded delivery time. The
// request and the status flip commit together.
func (s *OrderService) RequestReturn(ctx context.Context, orderID uint, userID, reason string) (*models.ReturnRequest, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var request *models.ReturnRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		order, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.UserID != userID {
			return ErrForbidden
		}
		if order.Status != models.OrderStatusDelivered {
			return ErrNotDelivered
		}

		if _, err := tx.ReturnRequestByOrder(ctx, orderID); err == nil {
			return ErrReturnExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		shipment, err := tx.ShipmentByOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotDelivered
			}
			return err
		}
		if shipment.DeliveredAt == nil {
			return ErrNotDelivered
		}
		if s.now().Sub(*shipment.DeliveredAt) > ReturnWindow {
			return ErrReturnWindowClosed
		}

		req := &models.ReturnRequest{
			OrderID:   orderID,
			UserID:    userID,
			Reason:    reason,
			CreatedAt: s.now(),
		}
		if err := tx.CreateReturnRequest(ctx, req); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrReturnExists
			}
			return err
		}

		order.Status = models.OrderStatusReturnRequested
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}

		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "user_id": userID}).Info("return requested")
	return request, nil
}

// GetOrder returns the order if the actor owns it or could modify it.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint, actor policy.Actor) (*models.Order, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !policy.CanViewOrder(actor, order) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.OrdersByUser(ctx, userID)
}

// generateOrderRef builds a unique, sortable order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
