// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

// Package gf128 implements multiplication in GF(2^128) for the polynomial
// authentication tag. The field polynomial is x^128 + x^7 + x^2 + x + 1 and
// elements use plain big-endian bit order: the most significant bit of the
// first byte is the coefficient of x^127. This is a GHASH-style field, not
// GCM's bit-reflected one; the tag does not interoperate with AES-GCM.
package gf128

import "encoding/binary"

// reduction is the low word folded in when a multiply overflows x^128,
// encoding x^7 + x^2 + x + 1.
const reduction = 0x87

// Element is a GF(2^128) element as two big-endian 64-bit halves.
type Element struct {
	Hi, Lo uint64
}

// FromBytes interprets b (exactly 16 bytes) as a big-endian element.
func FromBytes(b []byte) Element {
	return Element{
		Hi: binary.BigEndian.Uint64(b[:8]),
		Lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

// Bytes returns the big-endian 16-byte serialisation of e.
func (e Element) Bytes() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], e.Hi)
	binary.BigEndian.PutUint64(out[8:], e.Lo)
	return out
}

// Xor returns e XOR o.
func (e Element) Xor(o Element) Element {
	return Element{Hi: e.Hi ^ o.Hi, Lo: e.Lo ^ o.Lo}
}

// Mul multiplies a and b with a shift-and-add loop over the bits of a,
// most significant first. Both the conditional add and the reduction are
// applied through masks; no branch depends on the operands.
func Mul(a, b Element) Element {
	var z Element
	for i := 0; i < 128; i++ {
		carry := z.Hi >> 63
		z.Hi = z.Hi<<1 | z.Lo>>63
		z.Lo = z.Lo << 1
		z.Lo ^= reduction & -carry

		m := -(a.Hi >> 63)
		z.Hi ^= b.Hi & m
		z.Lo ^= b.Lo & m

		a.Hi = a.Hi<<1 | a.Lo>>63
		a.Lo <<= 1
	}
	return z
}
