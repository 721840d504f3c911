// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import "fmt"

// EncryptBlock encrypts one 32-byte block at index n. The state is mutated
// in place: the round transform advances it and the resulting ciphertext is
// fed back into the registers, so successive calls chain the way CBC does.
// Modes that need independent blocks clone the state first.
func (km *KeyMaterial) EncryptBlock(st *State, plaintext []byte, n uint64) ([]byte, error) {
	if len(plaintext) != BlockSize {
		return nil, fmt.Errorf("ruc: encrypt block: plaintext must be %d bytes, got %d", BlockSize, len(plaintext))
	}
	ks := km.keystream(st, n)

	var c [BlockSize]byte
	for i := range c {
		c[i] = plaintext[i] ^ ks[i]
	}
	st.feedback(c)
	return c[:], nil
}

// DecryptBlock inverts EncryptBlock. The keystream depends only on state,
// key, IV and n, and XOR is self-inverse, so the same transform runs in
// both directions; the feedback absorbs the ciphertext exactly as the
// encrypting side did.
func (km *KeyMaterial) DecryptBlock(st *State, ciphertext []byte, n uint64) ([]byte, error) {
	if len(ciphertext) != BlockSize {
		return nil, fmt.Errorf("ruc: decrypt block: ciphertext must be %d bytes, got %d", BlockSize, len(ciphertext))
	}
	ks := km.keystream(st, n)

	var c [BlockSize]byte
	copy(c[:], ciphertext)
	p := make([]byte, BlockSize)
	for i := range p {
		p[i] = c[i] ^ ks[i]
	}
	st.feedback(c)
	return p, nil
}
