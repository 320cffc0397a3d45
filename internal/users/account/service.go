// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trancanh/havenest/internal/platform/apperr"
	"github.com/trancanh/havenest/internal/platform/sec"
	"github.com/trancanh/havenest/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and updates for signed-in members.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepository AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepository,
		logger:            logger,
	}
}

// # Profile Reads

/*
CurrentUser retrieves the private profile of the authenticated account.

Description: The account id comes from a verified session token. An id that
no longer resolves means the session outlived the account, which is treated
as an authorization failure rather than a lookup miss.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *auth.Account: Sanitized profile
  - error: apperr.Forbidden when the account is gone
*/
func (service *Service) CurrentUser(context context.Context, accountID string) (*auth.Account, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Forbidden("Unauthorized")
		}
		return nil, err
	}

	return account.Sanitized(), nil
}

/*
PublicProfile retrieves the public view of an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.Account: Sanitized profile
  - error: apperr.NotFound when no account owns the username
*/
func (service *Service) PublicProfile(context context.Context, username string) (*auth.Account, error) {
	account, err := service.accountRepository.FindByUsername(context, strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	return account.Sanitized(), nil
}

// # Profile Updates

// UpdateProfileInput defines the mutable subset of account profile fields.
// Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	Username *string
	Name     *string
	Address  *string
	Company  *string
	Phone    *string
	Photo    *string
	Roles    []string
}

/*
UpdateProfile applies a partial set of changes to the caller's account.

Description: Fetches the current state, overlays the provided fields, and
synchronizes the result. Changing roles requires the Admin role; a username
collision leaves the account unmodified and surfaces as Conflict.

Parameters:
  - context: context.Context
  - accountID: string (The authenticated caller)
  - input: UpdateProfileInput

Returns:
  - *auth.Account: The updated, sanitized profile
  - error: apperr.Forbidden, apperr.Conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, accountID string, input UpdateProfileInput) (*auth.Account, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account profile lookup: %w", err)
	}

	if input.Username != nil {
		account.Username = strings.ToLower(*input.Username)
	}
	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Address != nil {
		account.Address = *input.Address
	}
	if input.Company != nil {
		account.Company = *input.Company
	}
	if input.Phone != nil {
		account.Phone = *input.Phone
	}
	if input.Photo != nil {
		account.Photo = *input.Photo
	}

	if input.Roles != nil {
		if !sec.HasRole(account.Roles, sec.RoleAdmin) {
			return nil, apperr.Forbidden("Only administrators may change roles")
		}
		roles, err := sec.RolesFromStringsStrict(input.Roles)
		if err != nil {
			return nil, apperr.ValidationError("Unknown role")
		}
		account.Roles = roles
	}

	if err := service.accountRepository.UpdateProfile(context, account); err != nil {
		return nil, err
	}

	service.logger.Info("profile updated", slog.String("account_id", accountID))

	return account.Sanitized(), nil
}

/*
UpdatePassword replaces the caller's password.

Description: The new password is hashed here; the plaintext never reaches
the repository. Existing sessions stay valid until they expire.

Parameters:
  - context: context.Context
  - accountID: string
  - newPassword: string (Validated by the handler)

Returns:
  - error: Hashing or storage failures
*/
func (service *Service) UpdatePassword(context context.Context, accountID, newPassword string) error {
	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	if err := service.accountRepository.UpdatePassword(context, accountID, newHash); err != nil {
		return err
	}

	service.logger.Info("password changed", slog.String("account_id", accountID))

	return nil
}
