// Package policy centralizes authorization decisions so that services ask a
// single predicate instead of branching on role strings inline.
package policy

import "github.com/bazario-dev/marketplace-api/models"

// Actor is the identity a request acts as.
type Actor struct {
	UserID  string
	Role    models.Role
	ShopIDs []uint // shops owned by the actor, populated for vendors
}

// CanModifyOrder reports whether the actor may change the order's status.
// Staff may transition any order; a vendor only orders that contain at least
// one item belonging to one of their shops.
func CanModifyOrder(actor Actor, order *models.Order) bool {
	if actor.Role.IsStaff() {
		return true
	}
	if actor.Role != models.RoleVendor {
		return false
	}
	for _, item := range order.Items {
		if ownsShop(actor, item.ShopID) {
			return true
		}
	}
	return false
}

// CanViewOrder allows the owner plus anyone who could modify it.
func CanViewOrder(actor Actor, order *models.Order) bool {
	if order.UserID == actor.UserID {
		return true
	}
	return CanModifyOrder(actor, order)
}

// CanManageShop reports whether the actor may manage the shop's catalog.
func CanManageShop(actor Actor, shop *models.Shop) bool {
	if actor.Role.IsStaff() {
		return true
	}
	return actor.Role == models.RoleVendor && shop.OwnerID == actor.UserID
}

func ownsShop(actor Actor, shopID uint) bool {
	for _, id := range actor.ShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}
