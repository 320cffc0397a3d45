// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

/*
Package auth implements the account lifecycle for the Havenest marketplace.

It defines the core domain entity (Account) and the logic for registration
with email activation, login, password recovery, and session issuance.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
transport dependencies and encapsulates all business rules related to user
identity, including the sanitize-on-egress boundary transform.
*/
package auth

import (
	"time"

	"github.com/trancanh/havenest/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered member of the Havenest marketplace.
//
// # Security
//
// PasswordHash and ResetCode are excluded from JSON serialization AND cleared
// by [Account.Sanitized] before any instance crosses the service boundary.
// The double guard exists because a single forgotten strip call must never be
// enough to leak a hash.
type Account struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	Company      string         `json:"company"`
	Phone        string         `json:"phone"`
	Photo        string         `json:"photo,omitempty"`
	Roles        []sec.UserRole `json:"role"`

	// References to listings owned by the listing service.
	EnquiredProperties []string `json:"enquired_properties"`
	Wishlist           []string `json:"wishlist"`

	// ResetCode is empty except during an open password-reset window.
	ResetCode string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitized returns a copy of the account with credential material cleared.
//
// Every service operation returns accounts through this transform — it is the
// single egress point demanded by the security review, not a per-handler
// convention.
func (account *Account) Sanitized() *Account {
	if account == nil {
		return nil
	}

	sanitized := *account
	sanitized.PasswordHash = ""
	sanitized.ResetCode = ""
	return &sanitized
}

// AuthSession represents a successfully established user session: a fresh
// short-lived session token, a long-lived refresh token, and the sanitized
// account they belong to.
type AuthSession struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	Account      *Account `json:"user"`
}

// # Field Identifiers

// Global field names for validation and payload mapping in the auth domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
	FieldUser         = "user"
	FieldMessage      = "message"
	FieldOK           = "ok"
)
