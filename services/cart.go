package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/store"
)

// CartService owns cart mutation. Stock checks here are read-then-write and
// deliberately not transactional across carts; the order-creation transaction
// is the only place stock is reserved for real.
type CartService struct {
	store store.Store
	log   *logrus.Logger
}

func NewCartService(st store.Store, log *logrus.Logger) *CartService {
	return &CartService{store: st, log: log}
}

// GetOrCreateCart returns the cart for the identity present; the user
// identity takes precedence over the session. The cart is created lazily.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID, sessionID string) (*models.Cart, error) {
	return s.getOrCreate(ctx, s.store, userID, sessionID)
}

func (s *CartService) getOrCreate(ctx context.Context, st store.Store, userID, sessionID string) (*models.Cart, error) {
	var (
		cart *models.Cart
		err  error
	)
	switch {
	case userID != "":
		cart, err = st.CartByUser(ctx, userID)
	case sessionID != "":
		cart, err = st.CartBySession(ctx, sessionID)
	default:
		return nil, ErrIdentityRequired
	}
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Only the prevailing identity is stored: a user cart must not also be
	// reachable through the session cookie, or the next login would merge it
	// into itself.
	cart = &models.Cart{UserID: userID}
	if userID == "" {
		cart.SessionID = sessionID
	}
	if err := st.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"cart_id": cart.CartID, "user_id": userID}).Debug("cart created")
	return cart, nil
}

// AddToCart validates stock against the live variant and inserts a new line.
// A second add for the same (cart, variant) pair is rejected; the quantity is
// changed through UpdateItemQuantity instead. Two concurrent adds are resolved
// by the unique index: exactly one wins.
func (s *CartService) AddToCart(ctx context.Context, variantID uint, quantity int, userID, sessionID string) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	variant, err := s.store.VariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.Stock < quantity {
		return nil, fmt.Errorf("%w: variant %d has %d left", ErrInsufficientStock, variantID, variant.Stock)
	}

	cart, err := s.GetOrCreateCart(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:    cart.CartID,
		VariantID: variantID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	if err := s.store.CreateCartItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrItemAlreadyInCart
		}
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity re-validates against the variant's stock at update time.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.store.CartItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	variant, err := s.store.VariantByID(ctx, item.VariantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.Stock < quantity {
		return nil, fmt.Errorf("%w: variant %d has %d left", ErrInsufficientStock, item.VariantID, variant.Stock)
	}

	item.Quantity = quantity
	item.AddedAt = time.Now()
	if err := s.store.SaveCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID uint) error {
	if err := s.store.DeleteCartItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}

// Count returns the number of line items for the cart badge; a missing cart
// counts as zero.
func (s *CartService) Count(ctx context.Context, userID, sessionID string) (int64, error) {
	var (
		cart *models.Cart
		err  error
	)
	switch {
	case userID != "":
		cart, err = s.store.CartByUser(ctx, userID)
	case sessionID != "":
		cart, err = s.store.CartBySession(ctx, sessionID)
	default:
		return 0, ErrIdentityRequired
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.store.CountCartItems(ctx, cart.CartID)
}

// MergeCartsOnLogin folds the anonymous session cart into the user's cart,
// summing quantities per variant and deleting the session cart. The whole
// merge runs in one transaction: if any combined quantity exceeds stock,
// nothing is merged and both carts are left as they were.
func (s *CartService) MergeCartsOnLogin(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return ErrIdentityRequired
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		sessionCart, err := tx.CartBySession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil // nothing to merge
			}
			return err
		}

		userCart, err := s.getOrCreate(ctx, tx, userID, "")
		if err != nil {
			return err
		}
		if userCart.CartID == sessionCart.CartID {
			// Both identities resolve to one cart; merging it into itself
			// would delete it.
			return nil
		}

		for _, sessionItem := range sessionCart.Items {
			variant, err := tx.VariantForUpdate(ctx, sessionItem.VariantID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrVariantNotFound
				}
				return err
			}

			userItem, err := tx.CartItem(ctx, userCart.CartID, sessionItem.VariantID)
			switch {
			case err == nil:
				combined := userItem.Quantity + sessionItem.Quantity
				if variant.Stock < combined {
					return fmt.Errorf("%w: variant %d has %d left, merge needs %d",
						ErrInsufficientStock, variant.ID, variant.Stock, combined)
				}
				userItem.Quantity = combined
				userItem.AddedAt = time.Now()
				if err := tx.SaveCartItem(ctx, userItem); err != nil {
					return err
				}
			case errors.Is(err, store.ErrNotFound):
				if variant.Stock < sessionItem.Quantity {
					return fmt.Errorf("%w: variant %d has %d left", ErrInsufficientStock, variant.ID, variant.Stock)
				}
				newItem := &models.CartItem{
					CartID:    userCart.CartID,
					VariantID: sessionItem.VariantID,
					Quantity:  sessionItem.Quantity,
					AddedAt:   time.Now(),
				}
				if err := tx.CreateCartItem(ctx, newItem); err != nil {
					return err
				}
			default:
				return err
			}
		}

		return tx.DeleteCart(ctx, sessionCart.CartID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID}).Info("session cart merged")
	return nil
}
