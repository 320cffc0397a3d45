// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

// PostgreSQL implementation of the account repository.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] values via [dberr.Wrap] so the service
// layer never inspects driver errors.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trancanh/havenest/internal/platform/apperr"
	"github.com/trancanh/havenest/internal/platform/dberr"
	"github.com/trancanh/havenest/internal/platform/sec"
)

// accountColumns is the canonical column list for users.account scans.
const accountColumns = `
	id, username, email, passwordhash, name, address, company, phone, photo,
	roles, enquiredproperties, wishlist, resetcode, createdat, updatedat`

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates the PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// scanAccount hydrates one account row. Roles and listing references are
// stored as text arrays and converted back to their domain types.
func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	var roles []string

	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.Address,
		&account.Company,
		&account.Phone,
		&account.Photo,
		&roles,
		&account.EnquiredProperties,
		&account.Wishlist,
		&account.ResetCode,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Roles = sec.RolesFromStrings(roles)
	return account, nil
}

/*
Create persists a new account record into the users.account table.

Description: Inserts the full entity, initializing timestamps when not
provided. Unique violations on email or username surface as Conflict.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, name, address, company, phone, photo,
			roles, enquiredproperties, wishlist, resetcode, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Address,
		account.Company,
		account.Phone,
		account.Photo,
		sec.RolesToStrings(account.Roles),
		account.EnquiredProperties,
		account.Wishlist,
		account.ResetCode,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Username or email is already taken")
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - context: context.Context
  - email: string (lowercase)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users.account WHERE email = $1`

	account, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "")
	}

	return account, nil
}

/*
FindByUsername retrieves an account by its unique username.

Parameters:
  - context: context.Context
  - username: string (lowercase)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users.account WHERE username = $1`

	account, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "")
	}

	return account, nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`

	account, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "")
	}

	return account, nil
}

/*
UpdateProfile persists the mutable profile fields of an account.

Description: Synchronizes username, contact fields, photo, and roles.
A username collision surfaces as Conflict so the caller can report
"Username is taken" without inspecting driver errors.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: apperr.Conflict or update failures
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET username = $2, name = $3, address = $4, company = $5, phone = $6,
		    photo = $7, roles = $8, updatedat = $9
		WHERE id = $1`

	account.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Username,
		account.Name,
		account.Address,
		account.Company,
		account.Phone,
		account.Photo,
		sec.RolesToStrings(account.Roles),
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Username is taken")
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, accountID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "")
	}

	return nil
}

/*
SetResetCode opens a password-reset window for the account.

Parameters:
  - context: context.Context
  - accountID: string
  - resetCode: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) SetResetCode(context context.Context, accountID, resetCode string) error {
	const query = `
		UPDATE users.account
		SET resetcode = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, accountID, resetCode, time.Now())
	if err != nil {
		return dberr.Wrap(err, "")
	}

	return nil
}

/*
ConsumeResetCode atomically claims and clears an open reset window.

Description: A single UPDATE ... RETURNING statement performs the find and
the clear, so two racing calls on the same code resolve to exactly one
winner inside PostgreSQL's row lock.

Parameters:
  - context: context.Context
  - resetCode: string

Returns:
  - *Account: The claimed account (resetcode already cleared)
  - error: apperr.NotFound when no open window matches
*/
func (repository *PostgresAccountRepository) ConsumeResetCode(context context.Context, resetCode string) (*Account, error) {
	const query = `
		UPDATE users.account
		SET resetcode = '', updatedat = $2
		WHERE resetcode = $1 AND resetcode <> ''
		RETURNING ` + accountColumns

	account, err := scanAccount(repository.pool.QueryRow(context, query, resetCode, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reset code")
		}
		return nil, dberr.Wrap(err, "")
	}

	return account, nil
}
