// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

// Package chacha adapts the RFC 8439 ChaCha20 stream cipher into the endless
// deterministic byte stream the cipher uses for permutation shuffles and
// priority ordering. The key is a 32-byte seed, the nonce is twelve zero
// bytes, the block counter starts at zero, and bytes are consumed
// left-to-right.
package chacha

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic keystream reader. Not safe for concurrent use;
// each consumer owns its own Stream.
type Stream struct {
	c *chacha20.Cipher
}

// New returns the keystream for seed with a zero nonce and zero counter.
func New(seed [32]byte) *Stream {
	var nonce [12]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce lengths are fixed at compile time; the constructor
		// cannot fail on them.
		panic("chacha: " + err.Error())
	}
	return &Stream{c: c}
}

// Read fills p with the next keystream bytes.
func (s *Stream) Read(p []byte) {
	for i := range p {
		p[i] = 0
	}
	s.c.XORKeyStream(p, p)
}

// Uint32 consumes the next four keystream bytes as a big-endian uint32.
func (s *Stream) Uint32() uint32 {
	var b [4]byte
	s.c.XORKeyStream(b[:], b[:])
	return binary.BigEndian.Uint32(b[:])
}
