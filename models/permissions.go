package models

// Permission checks are pure functions of the role so they can be tested
// without a request context. Ownership checks (a sales rep editing only
// their own orders) stay in the handlers.

// CanCreateOrder: every role may open a new order.
func CanCreateOrder(r UserRole) bool {
	return ValidRole(r)
}

// CanEditOrder: every role may edit orders it can see; drivers adjust
// quantities at the door.
func CanEditOrder(r UserRole) bool {
	return ValidRole(r)
}

// CanDeleteOrder: orders are never physically deleted except by explicit
// admin or manager action.
func CanDeleteOrder(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanMarkDelivered: drivers finalize their deliveries; admins and
// managers may finalize on their behalf.
func CanMarkDelivered(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleDriver
}

// CanViewAllOrders: sales reps and drivers see only their own orders.
func CanViewAllOrders(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageProducts guards catalog and stock mutations.
func CanManageProducts(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanSaveBalances guards cheque/credit balance edits.
func CanSaveBalances(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleSalesRep
}

// CanManageAllocations guards creating/replacing driver day allocations.
func CanManageAllocations(r UserRole) bool {
	return r == RoleAdmin || r == RoleManager
}
