// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

// Package kdf turns passwords into 64-byte master keys with Argon2id. The
// cipher core treats key derivation as an external collaborator: the salt
// travels in the envelope, the parameters are the caller's choice, and only
// the derived key crosses into key expansion.
package kdf

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the derived master key length in bytes.
	KeySize = 64
	// SaltSize is the salt length carried in password-bundled envelopes.
	SaltSize = 16
)

// Params selects an Argon2id cost profile.
type Params struct {
	// Time is the number of passes over memory.
	Time uint32
	// Memory is the memory cost in KiB.
	Memory uint32
	// Parallelism is the lane count.
	Parallelism uint8
}

// Recommended is the profile for keys protecting data at rest.
var Recommended = Params{Time: 4, Memory: 64 * 1024, Parallelism: 4}

// Interactive trades security margin for responsiveness in UI-driven flows.
var Interactive = Params{Time: 2, Memory: 16 * 1024, Parallelism: 2}

// DeriveKey derives the 64-byte master key from password and salt.
// Deterministic for fixed inputs and parameters.
func DeriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Parallelism, KeySize)
}

// NewSalt returns a fresh random 16-byte salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("kdf: salt generation failed: %w", err)
	}
	return salt, nil
}
