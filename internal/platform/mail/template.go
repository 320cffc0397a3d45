// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package mail

import "fmt"

// # Lifecycle Templates

// Subjects for the two account-lifecycle emails.
const (
	ActivationSubject = "Activate your account"
	ResetSubject      = "Access your account"
)

// ActivationMessage renders the account-activation email.
// The link embeds the signed pending-registration token.
func ActivationMessage(to, replyTo, clientURL, token string) Message {
	body := fmt.Sprintf(`<p>Please click the link below to activate your account</p>
<a href="%s/auth/account-activate/%s">Activate my account</a>`, clientURL, token)

	return Message{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  ActivationSubject,
		HTMLBody: body,
	}
}

// ResetMessage renders the password-reset email.
// The link embeds the signed reset token.
func ResetMessage(to, replyTo, clientURL, token string) Message {
	body := fmt.Sprintf(`<p>Please click the link below to access your account</p>
<a href="%s/auth/access-account/%s">Access my account</a>`, clientURL, token)

	return Message{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  ResetSubject,
		HTMLBody: body,
	}
}
