package services

import (
	"errors"
	"net/http"
)

// Domain failures are sentinel errors so handlers can map them to HTTP
// statuses without string matching. Validation -> 400, authorization -> 403,
// missing entities -> 404, everything else -> 500.
var (
	ErrIdentityRequired   = errors.New("a user or session identity is required")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrItemAlreadyInCart  = errors.New("item already in cart")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrReasonRequired     = errors.New("a return reason is required")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrNotDelivered       = errors.New("order has not been delivered")
	ErrReturnExists       = errors.New("return already requested for this order")
	ErrReturnWindowClosed = errors.New("return window has closed")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrMessageEmpty       = errors.New("message body is empty")

	ErrForbidden      = errors.New("operation not allowed")
	ErrNotCartOwner   = errors.New("cart belongs to another user")
	ErrNotParticipant = errors.New("not a participant of this conversation")

	ErrCartNotFound         = errors.New("cart not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrVariantNotFound      = errors.New("variant does not exist")
	ErrProductNotFound      = errors.New("product not found")
	ErrShopNotFound         = errors.New("shop not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
)

// HTTPStatus maps a service error to the status its handler should respond
// with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotCartOwner),
		errors.Is(err, ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrVariantNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrShopNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrConversationNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIdentityRequired),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrItemAlreadyInCart),
		errors.Is(err, ErrCartEmpty),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrNotDelivered),
		errors.Is(err, ErrReturnExists),
		errors.Is(err, ErrReturnWindowClosed),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrMessageEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
