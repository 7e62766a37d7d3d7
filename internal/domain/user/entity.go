// Package user describes the authenticated caller. Accounts live in the hosted backend; this
// service only reads the role and ids carried in the access token.
package user

type Role string

const (
	RoleOwner   Role = "owner"   // Shop owner - full access
	RoleManager Role = "manager" // Branch manager - sets commissions and payroll
	RoleCashier Role = "cashier" // POS operator - records attendance
	RoleStaff   Role = "staff"   // Barber or stylist - own data only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// IsManager checks if the role is manager or owner
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
