package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, user.RoleManager, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "emp-1", claims["employee_id"])
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken("user-1", nil, user.RoleStaff, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)

	_, err = NewJWTService("other-secret").ValidateSSEToken(token)
	assert.Error(t, err)
}
