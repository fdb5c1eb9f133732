package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(t *testing.T, svc Service, claims map[string]interface{}) string {
	t.Helper()
	_, token, err := svc.JWTAuth().Encode(claims)
	require.NoError(t, err)
	return token
}

func accessClaims() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "co-1",
		"role":       "payroll_admin",
		"type":       "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
}

func claimsOf(t *testing.T, svc Service, token string) (Claims, error) {
	t.Helper()
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	return ClaimsFromContext(jwtauth.NewContext(context.Background(), decoded, nil))
}

func TestClaimsFromContext_AccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	claims, err := claimsOf(t, svc, issue(t, svc, accessClaims()))

	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", CompanyID: "co-1", Role: "payroll_admin"}, claims)
}

func TestClaimsFromContext_RefreshTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	c := accessClaims()
	c["type"] = "refresh"

	_, err := claimsOf(t, svc, issue(t, svc, c))

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsFromContext_MissingUserRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	c := accessClaims()
	delete(c, "user_id")

	_, err := claimsOf(t, svc, issue(t, svc, c))

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongKeyRejected(t *testing.T) {
	token := issue(t, NewJWTService("key-a"), accessClaims())

	_, err := jwtauth.VerifyToken(NewJWTService("key-b").JWTAuth(), token)

	assert.Error(t, err)
}

func TestVerify_ExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	c := accessClaims()
	c["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := jwtauth.VerifyToken(svc.JWTAuth(), issue(t, svc, c))

	assert.Error(t, err)
}

func TestClaimsFromContext_NoToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())

	assert.ErrorIs(t, err, ErrInvalidToken)
}
