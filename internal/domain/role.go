package domain

// User roles carried in the JWT role claim.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

// Roles lists all known roles, in descending privilege order.
var Roles = []string{RoleAdmin, RoleManager, RoleCustomer}
