// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trancanh/havenest/internal/platform/apperr"
	"github.com/trancanh/havenest/internal/platform/mail"
	"github.com/trancanh/havenest/internal/platform/sec"
	"github.com/trancanh/havenest/pkg/randid"
	"github.com/trancanh/havenest/pkg/uuid"
)

// # Collaborator Contracts

// TokenCodec is the signing surface the auth service needs.
// Implemented by [sec.TokenService].
type TokenCodec interface {
	SignSession(userID string, timeToLive time.Duration) (string, error)
	VerifySession(tokenString string) (*sec.AuthClaims, error)
	SignRegistration(email, password string, timeToLive time.Duration) (string, error)
	VerifyRegistration(tokenString string) (*sec.RegistrationClaims, error)
	SignReset(resetCode string, timeToLive time.Duration) (string, error)
	VerifyReset(tokenString string) (*sec.ResetClaims, error)
}

// # Service

// Service orchestrates the account lifecycle: pre-registration, activation,
// login, password recovery, and session refresh.
type Service struct {
	accountRepository AccountRepository
	consumedTokens    ConsumedTokenRepository
	tokenCodec        TokenCodec
	mailSender        mail.Sender
	clientURL         string
	replyTo           string
	logger            *slog.Logger
}

// NewService creates the auth application service with its collaborators.
func NewService(
	accountRepository AccountRepository,
	consumedTokens ConsumedTokenRepository,
	tokenCodec TokenCodec,
	mailSender mail.Sender,
	clientURL string,
	replyTo string,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepository,
		consumedTokens:    consumedTokens,
		tokenCodec:        tokenCodec,
		mailSender:        mailSender,
		clientURL:         clientURL,
		replyTo:           replyTo,
		logger:            logger,
	}
}

// issueSession mints the session/refresh token pair for an account and
// bundles it with the sanitized entity.
func (service *Service) issueSession(account *Account) (*AuthSession, error) {
	sessionToken, err := service.tokenCodec.SignSession(account.ID, SessionTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sign session token: %w", err))
	}

	refreshToken, err := service.tokenCodec.SignSession(account.ID, RefreshTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sign refresh token: %w", err))
	}

	return &AuthSession{
		Token:        sessionToken,
		RefreshToken: refreshToken,
		Account:      account.Sanitized(),
	}, nil
}

// # Registration Flow

/*
PreRegister starts the registration flow for a new email address.

Description: No account row is created yet. The credentials are folded into
a short-lived signed token and emailed as an activation link; the account
materializes only when [Service.Register] redeems that token.

Parameters:
  - context: context.Context
  - email: string (normalized to lowercase)
  - password: string (plaintext, validated by the handler)

Returns:
  - bool: true when the activation email was dispatched
  - error: apperr.Conflict when the email already belongs to an account
*/
func (service *Service) PreRegister(context context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := service.accountRepository.FindByEmail(context, email); err == nil {
		return false, apperr.Conflict("Email is taken")
	} else if !apperr.IsNotFound(err) {
		return false, err
	}

	registrationToken, err := service.tokenCodec.SignRegistration(email, password, RegistrationTokenTTL)
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("sign registration token: %w", err))
	}

	message := mail.ActivationMessage(email, service.replyTo, service.clientURL, registrationToken)
	if err := service.mailSender.Send(context, message); err != nil {
		// Soft failure: the caller learns delivery did not happen, but the
		// flow can be restarted at no cost since nothing was persisted.
		service.logger.Error("activation email delivery failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return false, nil
	}

	return true, nil
}

/*
Register redeems a pending-registration token and creates the account.

Description: The token is validated, then atomically marked consumed in the
redemption ledger; a second redemption of the same token fails even if the
token itself is still within its lifetime. The password travels inside the
signed token and is hashed only here, at account creation.

Parameters:
  - context: context.Context
  - registrationToken: string (From the activation link)

Returns:
  - *AuthSession: Fresh token pair plus the sanitized account
  - error: apperr.Unauthorized for invalid, expired, or replayed tokens
*/
func (service *Service) Register(context context.Context, registrationToken string) (*AuthSession, error) {
	claims, err := service.tokenCodec.VerifyRegistration(registrationToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired activation link")
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	claimed, err := service.consumedTokens.MarkConsumed(context, claims.ID, remaining)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Replay: deliberately indistinguishable from an expired link.
		return nil, apperr.Unauthorized("Invalid or expired activation link")
	}

	passwordHash, err := sec.HashPassword(claims.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	account := &Account{
		ID:           uuid.New(),
		Username:     randid.Must(UsernameLength),
		Email:        claims.Email,
		PasswordHash: passwordHash,
		Roles:        sec.DefaultRoles(),
	}

	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, err
	}

	service.logger.Info("account activated",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return service.issueSession(account)
}

// # Login and Refresh

/*
Login authenticates an email/password pair and opens a session.

Description: A missing account and a wrong password produce the same
generic failure so the endpoint cannot be used to enumerate registered
emails. No account state is mutated on either path.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *AuthSession: Token pair plus the sanitized account
  - error: apperr.Unauthorized on any credential mismatch
*/
func (service *Service) Login(context context.Context, email, password string) (*AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return service.issueSession(account)
}

/*
RefreshSession exchanges a valid refresh token for a fresh token pair.

Parameters:
  - context: context.Context
  - refreshToken: string (From the refresh_token header)

Returns:
  - *AuthSession: New session/refresh pair plus the sanitized account
  - error: apperr.Forbidden when the token or the account is gone
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*AuthSession, error) {
	claims, err := service.tokenCodec.VerifySession(refreshToken)
	if err != nil {
		return nil, apperr.Forbidden("Refresh token failed")
	}

	account, err := service.accountRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Forbidden("Refresh token failed")
	}

	return service.issueSession(account)
}

// # Password Recovery

/*
ForgotPassword opens a password-reset window for an existing account.

Description: Generates a short random reset code, stores it on the account,
and emails a link carrying a signed token that wraps the code. Issuing a new
code overwrites any previous one, so only the latest link works.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: true when the reset email was dispatched
  - error: apperr.NotFound when the email has no account
*/
func (service *Service) ForgotPassword(context context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		return false, err
	}

	resetCode := randid.Must(ResetCodeLength)
	if err := service.accountRepository.SetResetCode(context, account.ID, resetCode); err != nil {
		return false, err
	}

	resetToken, err := service.tokenCodec.SignReset(resetCode, ResetTokenTTL)
	if err != nil {
		return false, apperr.Internal(fmt.Errorf("sign reset token: %w", err))
	}

	message := mail.ResetMessage(email, service.replyTo, service.clientURL, resetToken)
	if err := service.mailSender.Send(context, message); err != nil {
		service.logger.Error("reset email delivery failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return false, nil
	}

	return true, nil
}

/*
AccessAccount redeems a password-reset token and opens a session.

Description: The embedded reset code is claimed atomically; the claim clears
the code, so the link works exactly once even under concurrent redemption.

Parameters:
  - context: context.Context
  - resetToken: string (From the reset link)

Returns:
  - *AuthSession: Token pair plus the sanitized account
  - error: apperr.Unauthorized for bad tokens, apperr.NotFound for spent codes
*/
func (service *Service) AccessAccount(context context.Context, resetToken string) (*AuthSession, error) {
	claims, err := service.tokenCodec.VerifyReset(resetToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired reset link")
	}
	if claims.ResetCode == "" {
		// An empty code would match every account without an open window.
		return nil, apperr.Unauthorized("Invalid or expired reset link")
	}

	account, err := service.accountRepository.ConsumeResetCode(context, claims.ResetCode)
	if err != nil {
		return nil, err
	}

	service.logger.Info("account recovered via reset link",
		slog.String("account_id", account.ID),
	)

	return service.issueSession(account)
}
