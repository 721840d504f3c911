// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"crypto/rand"
	"fmt"

	"github.com/rosettascript/ruc/kdf"
)

// SealPassword encrypts plaintext under a password with the AEAD and
// returns the bundled envelope salt || nonce || ciphertext || tag. A fresh
// random salt feeds Argon2id to produce the master key; a fresh random
// nonce feeds the AEAD. Key expansion uses the strict S-box thresholds.
func SealPassword(password, plaintext, additionalData []byte, params kdf.Params) ([]byte, error) {
	return SealPasswordWithOptions(password, plaintext, additionalData, params, Options{})
}

// SealPasswordWithOptions is SealPassword with explicit expansion options.
func SealPasswordWithOptions(password, plaintext, additionalData []byte, params kdf.Params, opts Options) ([]byte, error) {
	salt, err := kdf.NewSalt()
	if err != nil {
		return nil, err
	}
	km, err := ExpandKeyWithOptions(kdf.DeriveKey(password, salt, params), opts)
	if err != nil {
		return nil, err
	}
	defer km.Zeroize()

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("ruc: nonce generation failed: %w", err)
	}
	sealed, err := km.Seal(nonce, plaintext, additionalData)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, kdf.SaltSize+len(sealed))
	out = append(out, salt...)
	out = append(out, sealed...)
	return out, nil
}

// OpenPassword verifies and decrypts a password-bundled envelope produced
// by SealPassword.
func OpenPassword(password, envelope, additionalData []byte, params kdf.Params) ([]byte, error) {
	return OpenPasswordWithOptions(password, envelope, additionalData, params, Options{})
}

// OpenPasswordWithOptions is OpenPassword with explicit expansion options.
func OpenPasswordWithOptions(password, envelope, additionalData []byte, params kdf.Params, opts Options) ([]byte, error) {
	if len(envelope) < kdf.SaltSize+NonceSize+BlockSize+TagSize {
		return nil, fmt.Errorf("%w: password envelope of %d bytes", ErrInvalidCiphertextLength, len(envelope))
	}
	salt := envelope[:kdf.SaltSize]
	km, err := ExpandKeyWithOptions(kdf.DeriveKey(password, salt, params), opts)
	if err != nil {
		return nil, err
	}
	defer km.Zeroize()
	return km.Open(envelope[kdf.SaltSize:], additionalData)
}
