// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancanh/havenest/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("unit-test-secret", "havenest.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_EmptySecret verifies that construction rejects a missing secret.
*/
func TestTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "havenest.test")
	assert.Error(t, err)
}

/*
TestTokenService_SessionRoundtrip verifies sign + verify of a session token.
*/
func TestTokenService_SessionRoundtrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.SignSession("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "havenest.test", claims.Issuer)
}

/*
TestTokenService_RegistrationRoundtrip verifies the pending-registration payload
survives the roundtrip and carries a unique jti.
*/
func TestTokenService_RegistrationRoundtrip(t *testing.T) {
	service := newTokenService(t)

	first, err := service.SignRegistration("a@x.com", "secret1", time.Hour)
	require.NoError(t, err)

	second, err := service.SignRegistration("a@x.com", "secret1", time.Hour)
	require.NoError(t, err)

	firstClaims, err := service.VerifyRegistration(first)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", firstClaims.Email)
	assert.Equal(t, "secret1", firstClaims.Password)
	require.NotEmpty(t, firstClaims.ID)

	secondClaims, err := service.VerifyRegistration(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID, "jti must differ per mint")
}

/*
TestTokenService_ResetRoundtrip verifies sign + verify of a reset token.
*/
func TestTokenService_ResetRoundtrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.SignReset("ab12cd", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyReset(token)
	require.NoError(t, err)
	assert.Equal(t, "ab12cd", claims.ResetCode)
}

/*
TestTokenService_Expiry verifies that expired tokens fail uniformly.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTokenService(t)

	token, err := service.SignSession("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifySession(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Tamper verifies that signature failures are indistinguishable
from expiry: both surface as ErrInvalidToken.
*/
func TestTokenService_Tamper(t *testing.T) {
	service := newTokenService(t)
	other, err := sec.NewTokenService("a-different-secret", "havenest.test")
	require.NoError(t, err)

	token, err := service.SignSession("user-123", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong_secret", token},
		{"garbage", "not.a.jwt"},
		{"truncated", token[:len(token)-5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := other.VerifySession(tt.token)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}

/*
TestHashPassword_Roundtrip verifies bcrypt hashing and constant-time matching.
*/
func TestHashPassword_Roundtrip(t *testing.T) {
	hash, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash, "hash must never equal the plaintext")
	assert.True(t, sec.CheckPasswordHash("secret1", hash))
	assert.False(t, sec.CheckPasswordHash("secret2", hash))
	assert.False(t, sec.CheckPasswordHash("secret1", "not-a-hash"))
}

/*
TestHashPassword_Salted verifies two hashes of the same input differ.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	second, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
