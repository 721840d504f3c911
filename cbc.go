// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import "fmt"

// EncryptCBC encrypts plaintext in chained mode under a caller-supplied
// 32-byte IV and returns the envelope IV || ciphertext. Each plaintext
// block is XORed with the previous ciphertext block (the IV for block 0)
// before entering the round engine, and the ciphertext feedback stays in
// the working state across blocks, so the mode is inherently sequential.
func (km *KeyMaterial) EncryptCBC(iv, plaintext []byte) ([]byte, error) {
	st, err := km.MixIV(iv)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext)
	out := make([]byte, IVSize+len(padded))
	copy(out, iv)

	var prev [BlockSize]byte
	copy(prev[:], iv)
	for n := 0; n < len(padded)/BlockSize; n++ {
		var x [BlockSize]byte
		for i := range x {
			x[i] = padded[n*BlockSize+i] ^ prev[i]
		}
		c, err := km.EncryptBlock(st, x[:], uint64(n))
		if err != nil {
			return nil, err
		}
		copy(out[IVSize+n*BlockSize:], c)
		copy(prev[:], c)
	}
	return out, nil
}

// DecryptCBC inverts EncryptCBC and strips the padding.
func (km *KeyMaterial) DecryptCBC(envelope []byte) ([]byte, error) {
	if len(envelope) < IVSize+BlockSize || (len(envelope)-IVSize)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: CBC envelope of %d bytes", ErrInvalidCiphertextLength, len(envelope))
	}
	iv := envelope[:IVSize]
	st, err := km.MixIV(iv)
	if err != nil {
		return nil, err
	}

	body := envelope[IVSize:]
	padded := make([]byte, len(body))

	var prev [BlockSize]byte
	copy(prev[:], iv)
	for n := 0; n < len(body)/BlockSize; n++ {
		c := body[n*BlockSize : (n+1)*BlockSize]
		x, err := km.DecryptBlock(st, c, uint64(n))
		if err != nil {
			return nil, err
		}
		for i := range x {
			padded[n*BlockSize+i] = x[i] ^ prev[i]
		}
		copy(prev[:], c)
	}
	return unpad(padded)
}
