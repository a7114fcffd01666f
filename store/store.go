// Package store is the persistence boundary. Services depend on the Store
// interface; the GORM implementation is constructed with an injected database
// handle owned by the composition root.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/bazario-dev/marketplace-api/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index,
	// e.g. a second (cart, variant) pair or a second return request.
	ErrDuplicate = errors.New("record already exists")
)

// Store bundles every repository plus transactional composition. Transaction
// runs fn against a store bound to one database transaction; returning an
// error rolls the whole unit back.
type Store interface {
	Transaction(ctx context.Context, fn func(Store) error) error

	Users
	Carts
	Catalog
	Orders
	Chat
}

type Users interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
}

type Carts interface {
	CartByUser(ctx context.Context, userID string) (*models.Cart, error)
	CartBySession(ctx context.Context, sessionID string) (*models.Cart, error)
	CartByID(ctx context.Context, id uint) (*models.Cart, error)
	CreateCart(ctx context.Context, c *models.Cart) error
	// DeleteCart removes the cart and all of its items.
	DeleteCart(ctx context.Context, cartID uint) error

	CartItemByID(ctx context.Context, id uint) (*models.CartItem, error)
	CartItem(ctx context.Context, cartID, variantID uint) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id uint) error
	CountCartItems(ctx context.Context, cartID uint) (int64, error)
}

type Catalog interface {
	ShopByID(ctx context.Context, id uint) (*models.Shop, error)
	ListShops(ctx context.Context) ([]models.Shop, error)
	ShopsByOwner(ctx context.Context, ownerID string) ([]models.Shop, error)

	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	// ListProducts returns products with variants; shopID 0 means all shops,
	// limit 0 means no limit.
	ListProducts(ctx context.Context, shopID uint, limit, offset int) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	// AddProductSales bumps the product's sales counter by qty.
	AddProductSales(ctx context.Context, productID uint, qty int) error

	VariantByID(ctx context.Context, id uint) (*models.ProductVariant, error)
	// VariantForUpdate locks the variant row for the enclosing transaction.
	VariantForUpdate(ctx context.Context, id uint) (*models.ProductVariant, error)
	SaveVariant(ctx context.Context, v *models.ProductVariant) error
	// LowStockVariants returns a shop's variants at or below their threshold.
	LowStockVariants(ctx context.Context, shopID uint) ([]models.ProductVariant, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	OrderByID(ctx context.Context, id uint) (*models.Order, error)
	OrderByRef(ctx context.Context, ref string) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error
	// OrdersBetween returns orders created in [from, to); shopID 0 means all
	// shops, otherwise only orders containing that shop's items.
	OrdersBetween(ctx context.Context, shopID uint, from, to time.Time) ([]models.Order, error)

	CreateTransaction(ctx context.Context, t *models.Transaction) error
	TransactionByOrder(ctx context.Context, orderID uint) (*models.Transaction, error)
	TransactionByReference(ctx context.Context, ref string) (*models.Transaction, error)
	SaveTransaction(ctx context.Context, t *models.Transaction) error

	ShipmentByOrder(ctx context.Context, orderID uint) (*models.Shipment, error)
	CreateShipment(ctx context.Context, s *models.Shipment) error
	SaveShipment(ctx context.Context, s *models.Shipment) error

	ReturnRequestByOrder(ctx context.Context, orderID uint) (*models.ReturnRequest, error)
	CreateReturnRequest(ctx context.Context, r *models.ReturnRequest) error
}

type Chat interface {
	ConversationByID(ctx context.Context, id uint) (*models.Conversation, error)
	// ConversationFor finds the user<->shop thread, without creating it.
	ConversationFor(ctx context.Context, userID string, shopID uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, c *models.Conversation) error
	ConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	ConversationsByShop(ctx context.Context, shopID uint) ([]models.Conversation, error)

	MessagesByConversation(ctx context.Context, convID uint, limit, offset int) ([]models.Message, error)
	CreateMessage(ctx context.Context, m *models.Message) error
}
