package auth

import (
	"testing"
	"time"

	"signboard-admin/internal/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", time.Hour, "signboard-admin", clk)

	signed, err := tokens.GenerateToken(7, "employee")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, Session{UserID: "7", Role: "employee"}, claims.Session())
}

func TestTokens_Expired(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", time.Hour, "signboard-admin", clk)

	signed, err := tokens.GenerateToken(1, "admin")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = tokens.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokens_WrongSecret(t *testing.T) {
	signed, err := NewTokens("one", time.Hour, "", nil).GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour, "", nil).ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_UnknownRoleRejected(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, "", nil)
	signed, err := tokens.GenerateToken(1, "superuser")
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_CanAccess(t *testing.T) {
	admin := Session{UserID: "1", Role: "admin"}
	emp := Session{UserID: "2", Role: "employee"}

	assert.True(t, admin.CanAccess("2"))
	assert.True(t, admin.CanAccess(""))
	assert.True(t, emp.CanAccess("2"))
	assert.False(t, emp.CanAccess("3"))
	assert.False(t, emp.CanAccess(""))
	assert.False(t, Session{Role: "employee"}.CanAccess(""))
}
