// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces declared by the consumers.
//
// # Token Model
//
// All tokens are HMAC-SHA256 JWTs signed with a single fixed secret from
// configuration. Three claim shapes exist:
//
//   - AuthClaims: session and refresh tokens, carrying the account id.
//   - RegistrationClaims: pending registrations, carrying email+password and
//     a jti used to make the token single-use.
//   - ResetClaims: password-reset tokens, carrying the one-shot reset code.
//
// Verification failures are reported uniformly: callers cannot (and must not)
// distinguish a tampered token from an expired one.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trancanh/havenest/pkg/uuid"
)

// ErrInvalidToken is the uniform verification failure for every token kind.
// It covers bad signatures, malformed payloads, and expiry alike.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// # Claim Shapes

// AuthClaims is the payload embedded inside session and refresh tokens.
//
// Carrying the account id inside the JWT lets [middleware.Authenticate]
// reconstruct the active user context without a database query per request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID is the account's UUIDv7. Abbreviated to keep the payload small.
	UserID string `json:"uid"`
}

// RegistrationClaims is the payload of a pending-registration token.
//
// The account does not exist yet; the claims ARE the registration. The ID
// (jti) registered claim is consumed exactly once at redemption time.
type RegistrationClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"eml"`
	Password string `json:"pwd"`
}

// ResetClaims is the payload of a password-reset token.
type ResetClaims struct {
	jwt.RegisteredClaims

	ResetCode string `json:"rsc"`
}

// # Token Service

// TokenService signs and verifies JWTs using HS256 over a fixed secret.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService.
// The secret comes from external configuration and must not be empty.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// registeredClaims builds the standard claim block shared by all token kinds.
func (service *TokenService) registeredClaims(subject string, timeToLive time.Duration) jwt.RegisteredClaims {
	currentTime := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}
}

// sign serializes and signs any claim set with the service secret.
func (service *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// keyFunc returns the HMAC secret after rejecting non-HMAC signing methods.
// Accepting the algorithm from the token header would allow downgrade attacks.
func (service *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return service.secret, nil
}

// # Session Tokens

// SignSession creates a signed session or refresh token for the account.
// Session and refresh tokens share a claim shape and differ only in TTL.
func (service *TokenService) SignSession(userID string, timeToLive time.Duration) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: service.registeredClaims(userID, timeToLive),
		UserID:           userID,
	}
	return service.sign(claims)
}

// VerifySession checks signature and expiry of a session or refresh token.
func (service *TokenService) VerifySession(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := service.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// # Registration Tokens

// SignRegistration creates a pending-registration token embedding the
// credentials supplied at pre-registration. The jti makes it single-use.
func (service *TokenService) SignRegistration(email, password string, timeToLive time.Duration) (string, error) {
	registered := service.registeredClaims(email, timeToLive)
	registered.ID = uuid.New()

	claims := RegistrationClaims{
		RegisteredClaims: registered,
		Email:            email,
		Password:         password,
	}
	return service.sign(claims)
}

// VerifyRegistration checks and decodes a pending-registration token.
func (service *TokenService) VerifyRegistration(tokenString string) (*RegistrationClaims, error) {
	claims := &RegistrationClaims{}
	if err := service.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// # Reset Tokens

// SignReset creates a password-reset token embedding the one-shot reset code.
func (service *TokenService) SignReset(resetCode string, timeToLive time.Duration) (string, error) {
	claims := ResetClaims{
		RegisteredClaims: service.registeredClaims(resetCode, timeToLive),
		ResetCode:        resetCode,
	}
	return service.sign(claims)
}

// VerifyReset checks and decodes a password-reset token.
func (service *TokenService) VerifyReset(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := service.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// verify parses the token into claims and collapses every failure mode
// (signature, structure, expiry) into [ErrInvalidToken].
func (service *TokenService) verify(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, service.keyFunc)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
