// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import "errors"

// The error taxonomy of the core. Two other failures can also be returned:
// EncryptBlock and DecryptBlock reject a block that is not 32 bytes with an
// error that wraps none of these, and the password envelope functions pass
// through failures of the system random source. Any internal arithmetic
// failure is a bug and panics.
var (
	// ErrInvalidKeyLength reports a master key that is not 64 bytes.
	ErrInvalidKeyLength = errors.New("ruc: invalid key length")
	// ErrInvalidIVLength reports an IV that is not 32 bytes.
	ErrInvalidIVLength = errors.New("ruc: invalid IV length")
	// ErrInvalidNonceLength reports a nonce that is not 16 bytes.
	ErrInvalidNonceLength = errors.New("ruc: invalid nonce length")
	// ErrInvalidCiphertextLength reports an envelope shorter than its header
	// plus one block (plus tag for AEAD), or a body that is not a whole
	// number of blocks.
	ErrInvalidCiphertextLength = errors.New("ruc: invalid ciphertext length")
	// ErrInvalidPadding reports an out-of-range or inconsistent PKCS#7 pad.
	// The decrypted bytes are never released alongside it.
	ErrInvalidPadding = errors.New("ruc: invalid padding")
	// ErrAuthenticationFailed reports an AEAD tag mismatch, raised before
	// any plaintext is returned.
	ErrAuthenticationFailed = errors.New("ruc: authentication failed")
	// ErrSBoxGenerationFailed reports that a round S-box exhausted its retry
	// budget without meeting the acceptance thresholds. Unrecoverable for
	// that key.
	ErrSBoxGenerationFailed = errors.New("ruc: s-box generation failed")
)
