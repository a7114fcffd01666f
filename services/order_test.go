package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
)

type recordingEvents struct {
	orders []*models.Order
}

func (r *recordingEvents) OrderCreated(_ context.Context, order *models.Order) {
	r.orders = append(r.orders, order)
}

func cartWith(t *testing.T, st *fakeStore, userID string, lines map[uint]int) *models.Cart {
	t.Helper()
	ctx := context.Background()

	cart := &models.Cart{UserID: userID}
	require.NoError(t, st.CreateCart(ctx, cart))
	for variantID, qty := range lines {
		require.NoError(t, st.CreateCartItem(ctx, &models.CartItem{
			CartID:    cart.CartID,
			VariantID: variantID,
			Quantity:  qty,
		}))
	}
	return cart
}

func TestCreateOrderFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("converts the cart atomically", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		p1, v1 := st.seedProduct(shop.ID, "Mug", 10, 8)
		_, v2 := st.seedProduct(shop.ID, "Shirt", 25, 3)
		cart := cartWith(t, st, "user-1", map[uint]int{v1.ID: 2, v2.ID: 1})

		events := &recordingEvents{}
		svc := NewOrderService(st, events, newTestLogger())

		order, err := svc.CreateOrderFromCart(ctx, "user-1", cart.CartID)
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
		assert.NotEmpty(t, order.OrderRef)
		assert.Equal(t, 45.0, order.TotalAmount)
		require.Len(t, order.Items, 2)
		for _, item := range order.Items {
			assert.Equal(t, shop.ID, item.ShopID)
			assert.NotEmpty(t, item.ProductName)
		}

		// Stock decremented, sales bumped.
		variant, err := st.VariantByID(ctx, v1.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, variant.Stock)
		product, err := st.ProductByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, product.SalesCount)

		// Payment record pending.
		tr, err := st.TransactionByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, tr.Status)
		assert.Equal(t, order.TotalAmount, tr.Amount)

		// Cart gone.
		_, err = st.CartByID(ctx, cart.CartID)
		assert.Error(t, err)

		// Post-commit hook fired once.
		require.Len(t, events.orders, 1)
		assert.Equal(t, order.ID, events.orders[0].ID)
	})

	t.Run("freezes the price at purchase time", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		_, variant := st.seedProduct(shop.ID, "Mug", 10, 8)
		cart := cartWith(t, st, "user-1", map[uint]int{variant.ID: 1})
		svc := NewOrderService(st, nil, newTestLogger())

		order, err := svc.CreateOrderFromCart(ctx, "user-1", cart.CartID)
		require.NoError(t, err)

		v, err := st.VariantByID(ctx, variant.ID)
		require.NoError(t, err)
		v.Price = 99
		require.NoError(t, st.SaveVariant(ctx, v))

		got, err := st.OrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got.Items[0].PriceAtPurchase)
		assert.Equal(t, 10.0, got.TotalAmount)
	})

	t.Run("missing cart", func(t *testing.T) {
		st := newFakeStore()
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.CreateOrderFromCart(ctx, "user-1", 42)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("another user's cart", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		_, variant := st.seedProduct(shop.ID, "Mug", 10, 8)
		cart := cartWith(t, st, "user-1", map[uint]int{variant.ID: 1})
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.CreateOrderFromCart(ctx, "user-2", cart.CartID)
		assert.ErrorIs(t, err, ErrNotCartOwner)

		// Cart survives the failed attempt.
		_, err = st.CartByID(ctx, cart.CartID)
		assert.NoError(t, err)
	})

	t.Run("empty cart", func(t *testing.T) {
		st := newFakeStore()
		cart := cartWith(t, st, "user-1", nil)
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.CreateOrderFromCart(ctx, "user-1", cart.CartID)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("insufficient stock rolls everything back", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		_, v1 := st.seedProduct(shop.ID, "Mug", 10, 8)
		_, v2 := st.seedProduct(shop.ID, "Shirt", 25, 1)
		cart := cartWith(t, st, "user-1", map[uint]int{v1.ID: 2, v2.ID: 5})

		events := &recordingEvents{}
		svc := NewOrderService(st, events, newTestLogger())

		_, err := svc.CreateOrderFromCart(ctx, "user-1", cart.CartID)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		// No partial decrement even if the first line was processed.
		variant, err := st.VariantByID(ctx, v1.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, variant.Stock)

		got, err := st.CartByID(ctx, cart.CartID)
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)

		orders, err := st.OrdersByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.Empty(t, events.orders)
	})
}

func seedOrder(t *testing.T, st *fakeStore, userID string, shopID uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderRef: "ref-" + userID + string(status),
		UserID:   userID,
		Status:   status,
		Items: []models.OrderItem{
			{VariantID: 1, ShopID: shopID, ProductName: "Mug", Quantity: 1, PriceAtPurchase: 10},
		},
		TotalAmount: 10,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, st.CreateOrder(context.Background(), order))
	return order
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := policy.Actor{UserID: "admin-1", Role: models.RoleAdmin}

	t.Run("rejects unknown status values", func(t *testing.T) {
		st := newFakeStore()
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.UpdateStatus(ctx, 1, "teleported", admin)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing order", func(t *testing.T) {
		st := newFakeStore()
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.UpdateStatus(ctx, 42, models.OrderStatusConfirmed, admin)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("vendor scoped to own shops", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusPending)
		svc := NewOrderService(st, nil, newTestLogger())

		owner := policy.Actor{UserID: "vendor-1", Role: models.RoleVendor, ShopIDs: []uint{shop.ID}}
		updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed, owner)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

		stranger := policy.Actor{UserID: "vendor-2", Role: models.RoleVendor, ShopIDs: []uint{shop.ID + 100}}
		_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, stranger)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("customer may not transition", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusPending)
		svc := NewOrderService(st, nil, newTestLogger())

		buyer := policy.Actor{UserID: "user-1", Role: models.RoleUser}
		_, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, buyer)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("shipped creates the shipment", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusConfirmed)
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, admin)
		require.NoError(t, err)

		shipment, err := st.ShipmentByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, shipment.DeliveredAt)
	})

	t.Run("delivered stamps the delivery time", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())

		deliveredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return deliveredAt }

		_, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered, admin)
		require.NoError(t, err)

		shipment, err := st.ShipmentByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, shipment.DeliveredAt)
		assert.Equal(t, deliveredAt, *shipment.DeliveredAt)

		// A later transition must not move the stamp.
		svc.now = func() time.Time { return deliveredAt.Add(time.Hour) }
		_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered, admin)
		require.NoError(t, err)

		shipment, err = st.ShipmentByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, deliveredAt, *shipment.DeliveredAt)
	})
}

func TestRequestReturn(t *testing.T) {
	ctx := context.Background()
	admin := policy.Actor{UserID: "admin-1", Role: models.RoleAdmin}

	deliveredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	deliver := func(t *testing.T, st *fakeStore, svc *OrderService, orderID uint) {
		t.Helper()
		svc.now = func() time.Time { return deliveredAt }
		_, err := svc.UpdateStatus(ctx, orderID, models.OrderStatusDelivered, admin)
		require.NoError(t, err)
	}

	t.Run("accepted within the window", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())
		deliver(t, st, svc, order.ID)

		svc.now = func() time.Time { return deliveredAt.Add(ReturnWindow - time.Minute) }
		req, err := svc.RequestReturn(ctx, order.ID, "user-1", "wrong size")
		require.NoError(t, err)
		assert.Equal(t, "wrong size", req.Reason)

		got, err := st.OrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusReturnRequested, got.Status)
	})

	t.Run("rejected after the window", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())
		deliver(t, st, svc, order.ID)

		svc.now = func() time.Time { return deliveredAt.Add(ReturnWindow + time.Minute) }
		_, err := svc.RequestReturn(ctx, order.ID, "user-1", "wrong size")
		assert.ErrorIs(t, err, ErrReturnWindowClosed)

		// Status untouched on failure.
		got, err := st.OrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusDelivered, got.Status)
	})

	t.Run("only once per order", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())
		deliver(t, st, svc, order.ID)

		svc.now = func() time.Time { return deliveredAt.Add(time.Hour) }
		_, err := svc.RequestReturn(ctx, order.ID, "user-1", "wrong size")
		require.NoError(t, err)

		_, err = svc.RequestReturn(ctx, order.ID, "user-1", "changed my mind")
		assert.ErrorIs(t, err, ErrReturnExists)
	})

	t.Run("owner only", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())
		deliver(t, st, svc, order.ID)

		_, err := svc.RequestReturn(ctx, order.ID, "user-2", "not mine")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delivered orders only", func(t *testing.T) {
		st := newFakeStore()
		shop := st.seedShop("vendor-1", "Acme")
		order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusShipped)
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.RequestReturn(ctx, order.ID, "user-1", "too slow")
		assert.ErrorIs(t, err, ErrNotDelivered)
	})

	t.Run("reason required", func(t *testing.T) {
		st := newFakeStore()
		svc := NewOrderService(st, nil, newTestLogger())

		_, err := svc.RequestReturn(ctx, 1, "user-1", "")
		assert.ErrorIs(t, err, ErrReasonRequired)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	shop := st.seedShop("vendor-1", "Acme")
	order := seedOrder(t, st, "user-1", shop.ID, models.OrderStatusPending)
	svc := NewOrderService(st, nil, newTestLogger())

	t.Run("owner", func(t *testing.T) {
		got, err := svc.GetOrder(ctx, order.ID, policy.Actor{UserID: "user-1", Role: models.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("vendor with items in the order", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, order.ID, policy.Actor{UserID: "vendor-1", Role: models.RoleVendor, ShopIDs: []uint{shop.ID}})
		assert.NoError(t, err)
	})

	t.Run("unrelated user", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, order.ID, policy.Actor{UserID: "user-2", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, 999, policy.Actor{UserID: "user-1", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
