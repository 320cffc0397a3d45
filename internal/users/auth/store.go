// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for user accounts.
//
// Implementations must report unique-index violations (email, username) as
// typed Conflict results, never as opaque driver errors.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given (lowercase) email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		FindByUsername returns the account with the given (lowercase) username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict on unique violation, or persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdateProfile persists changes to the mutable profile fields
		(username, name, address, company, phone, photo, roles).

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict on username collision, or persistence failures
	*/
	UpdateProfile(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error

	/*
		SetResetCode opens a password-reset window by storing the one-shot code.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - resetCode: string

		Returns:
		  - error: Persistence failures
	*/
	SetResetCode(context context.Context, accountID, resetCode string) error

	/*
		ConsumeResetCode atomically finds the account holding the reset code
		and clears it in the same statement. Two concurrent calls with the
		same code must not both succeed.

		Parameters:
		  - context: context.Context
		  - resetCode: string

		Returns:
		  - *Account: The account whose window was closed
		  - error: apperr.NotFound when no open window matches
	*/
	ConsumeResetCode(context context.Context, resetCode string) (*Account, error)
}

// # Volatile Data Access

// ConsumedTokenRepository records pending-registration tokens (by jti) that
// have already been redeemed, making activation links single-use.
type ConsumedTokenRepository interface {

	/*
		MarkConsumed records the jti as redeemed if it was not already.
		The mark expires with the token itself.

		Parameters:
		  - context: context.Context
		  - jti: string
		  - ttl: time.Duration

		Returns:
		  - bool: true if this call performed the first redemption
		  - error: Persistence failures
	*/
	MarkConsumed(context context.Context, jti string, ttl time.Duration) (bool, error)
}
