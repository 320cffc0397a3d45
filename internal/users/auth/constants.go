// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the duration a session token remains valid.
	// Short (1h) to minimize the impact of a leaked token.
	SessionTokenTTL = 1 * time.Hour

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (7 days) to provide a good user experience.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RegistrationTokenTTL is the validity window of a pending-registration
	// token between pre-registration and the user clicking the email link.
	RegistrationTokenTTL = 1 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	ResetTokenTTL = 1 * time.Hour

	// UsernameLength is the size of the system-generated account handle.
	UsernameLength = 6

	// ResetCodeLength is the size of the one-shot reset code persisted on
	// the account during a reset window.
	ResetCodeLength = 6

	// MinPasswordLength is the minimum accepted password size.
	MinPasswordLength = 6
)
