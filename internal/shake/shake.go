// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

// Package shake wraps the FIPS-202 SHAKE256 extendable-output function and
// holds the domain-separation tags used by the cipher. Every derivation in
// the scheme is SHAKE256 over key material, an ASCII tag, and big-endian
// index bytes; collecting the tags here keeps the domains from colliding.
package shake

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Domain-separation tags. These byte strings are part of the wire-level
// definition of the cipher and must not change.
const (
	TagRegister  = "RUC-REG"
	TagSelector  = "RUC-SEL"
	TagPermute   = "RUC-PERM"
	TagRoundKey  = "RUC-RK"
	TagSBox      = "RUC-SBOX"
	TagConst     = "RUC-CONST"
	TagIVExpand  = "RUC-IV-EXPAND"
	TagPriority  = "RUC-PRIO"
	TagKeystream = "RUC-KS"

	TagGCMEncKey  = "RUC-GCM-ENC"
	TagGCMAuthKey = "RUC-GCM-AUTH"
	TagGCMIV      = "RUC-GCM-IV"
	TagCTRIV      = "RUC-CTR-IV"

	// TagCounter folds the block counter into CTR-mode state. Deliberately
	// not RUC-prefixed; the bare tag is what the wire format fixes.
	TagCounter = "CTR"
)

// Sum absorbs the parts in order into SHAKE256 and squeezes n output bytes.
func Sum(n int, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	for _, p := range parts {
		h.Write(p)
	}
	out := make([]byte, n)
	h.Read(out)
	return out
}

// U16 returns the big-endian encoding of v.
func U16(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}

// U64 returns the big-endian encoding of v.
func U64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
