// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

/*
Package account handles profile management and credential changes for
signed-in members.

It provides functionality for users to view their private identity data,
look up public profiles by username, and update their profile fields and
password.

# Architecture

  - Domain: this package depends on the auth package for the Account entity.
  - The repository contract below is satisfied by the auth package's
    PostgreSQL repository; both domains share the users.account table.
*/
package account

import (
	"context"

	"github.com/trancanh/havenest/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence surface the account domain needs.
type AccountRepository interface {
	/*
		FindByID retrieves an account by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.Account: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.Account, error)

	/*
		FindByUsername retrieves an account by its public username.

		Parameters:
		  - context: context.Context
		  - username: string (lowercase)

		Returns:
		  - *auth.Account: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.Account, error)

	/*
		UpdateProfile persists the mutable profile fields of an account.

		Parameters:
		  - context: context.Context
		  - account: *auth.Account (Hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on username collision, storage failures
	*/
	UpdateProfile(context context.Context, account *auth.Account) error

	/*
		UpdatePassword replaces the stored password hash of an account.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Execution failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error
}
