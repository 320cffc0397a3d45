// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

/*
Package randid generates short, URL-safe random identifiers.

It is the platform's source for human-visible codes that must be compact and
hard to guess but not globally unique on their own (uniqueness, where needed,
is enforced by database constraints).

Uses:

  - Usernames: Every new account receives a system-generated handle.
  - Reset codes: One-shot codes persisted during a password-reset window.

All output is lowercase so that values can be used directly in
case-insensitive unique indexes and URLs.
*/
package randid

import (
	"crypto/rand"
	"fmt"
)

// alphabet is the symbol set for generated identifiers.
// Lowercase letters and digits only: safe for URLs, emails, and unique indexes.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// # Generators

// New returns a random identifier of the given length drawn from a
// lowercase alphanumeric alphabet using crypto/rand.
func New(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("randid: length must be positive, got %d", length)
	}

	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("randid: failed to read entropy: %w", err)
	}

	// Map each random byte onto the alphabet. The bias introduced by the
	// modulo is irrelevant here: these are identifiers, not key material.
	for i, b := range buffer {
		buffer[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buffer), nil
}

// Must returns a random identifier or panics.
// Entropy exhaustion is an unrecoverable system-level error.
func Must(length int) string {
	id, err := New(length)
	if err != nil {
		panic(err.Error())
	}
	return id
}
