package auth

import "github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/user"

// Claims is the caller identity read from an access token.
type Claims struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

// ClaimsFromMap reads the claims the hosted backend puts in its access tokens.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	if tokenType, _ := m["type"].(string); tokenType != "access" {
		return Claims{}, ErrInvalidToken
	}
	userID, ok := m["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrInvalidToken
	}
	role, _ := m["role"].(string)

	claims := Claims{UserID: userID, Role: user.Role(role)}
	if employeeID, ok := m["employee_id"].(string); ok && employeeID != "" {
		claims.EmployeeID = &employeeID
	}
	return claims, nil
}
