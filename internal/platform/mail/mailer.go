// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

/*
Package mail implements the outbound transactional-email sender.

It delivers account-activation and password-reset links to users. Delivery is
best-effort: the account lifecycle reports failures to the caller as a soft
result instead of failing the whole operation.

Architecture:

  - Sender: The contract consumed by domain services.
  - SMTPSender: Production implementation built on wneessen/go-mail.
  - Templates: HTML bodies for the two lifecycle emails live in template.go.
*/
package mail

import (
	stdctx "context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// # Contracts

// Message is a fully rendered outbound email.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Sender delivers transactional email.
//
// Implementations must be safe for concurrent use; domain services share a
// single Sender across requests.
type Sender interface {
	Send(context stdctx.Context, message Message) error
}

// # SMTP Implementation

// SMTPConfig holds the connection settings for the SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender implements [Sender] over an authenticated SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender constructs the production mail sender.
//
// The client negotiates STARTTLS opportunistically so local development
// relays without certificates keep working.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	options := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}

	if cfg.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create SMTP client: %w", err)
	}

	return &SMTPSender{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

/*
Send delivers a single rendered message through the SMTP relay.

Parameters:
  - context: context.Context
  - message: Message (recipient, subject, HTML body)

Returns:
  - error: Construction or delivery failures
*/
func (sender *SMTPSender) Send(context stdctx.Context, message Message) error {
	msg := gomail.NewMsg()

	if err := msg.From(sender.from); err != nil {
		return fmt.Errorf("mail: invalid sender address: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}
	if message.ReplyTo != "" {
		if err := msg.ReplyTo(message.ReplyTo); err != nil {
			return fmt.Errorf("mail: invalid reply-to address: %w", err)
		}
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, message.HTMLBody)

	if err := sender.client.DialAndSendWithContext(context, msg); err != nil {
		return fmt.Errorf("mail: delivery failed: %w", err)
	}

	sender.logger.Info("email_delivered",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
	)

	return nil
}
