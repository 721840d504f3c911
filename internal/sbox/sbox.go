// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

// Package sbox derives the per-round 8-bit substitution boxes. Each box is a
// Fisher-Yates shuffle of the identity permutation driven by key-separated
// SHAKE256 output, accepted only if it meets cryptographic quality bounds:
// nonlinearity via the fast Walsh-Hadamard transform, differential
// uniformity, and per-component algebraic degree via the Moebius transform.
// Rejected candidates retry with an extended domain separation up to a
// bounded retry count.
package sbox

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/rosettascript/ruc/internal/shake"
)

// Thresholds is the acceptance predicate for a candidate permutation.
type Thresholds struct {
	MinNonlinearity           int
	MaxDifferentialUniformity int
	MinAlgebraicDegree        int
}

// Strict is the normative production predicate.
var Strict = Thresholds{
	MinNonlinearity:           100,
	MaxDifferentialUniformity: 4,
	MinAlgebraicDegree:        7,
}

// Relaxed is the randomised self-test predicate. A random permutation meets
// these bounds within a handful of tries, which the strict ones do not.
var Relaxed = Thresholds{
	MinNonlinearity:           90,
	MaxDifferentialUniformity: 16,
	MinAlgebraicDegree:        6,
}

// DefaultRetryCap bounds the rejection loop per round.
const DefaultRetryCap = 100

// ErrGenerationFailed reports that no candidate met the thresholds within
// the retry cap.
var ErrGenerationFailed = errors.New("sbox: generation failed")

// Generate derives the S-box for the given round from the master key.
// Attempt 0 shuffles from SHAKE256(key || "RUC-SBOX" || u16be(round)); each
// retry t in [1,retryCap] extends the domain with u16be(t).
func Generate(key []byte, round uint16, th Thresholds, retryCap int) ([256]byte, error) {
	for attempt := 0; attempt <= retryCap; attempt++ {
		var material []byte
		if attempt == 0 {
			material = shake.Sum(512, key, []byte(shake.TagSBox), shake.U16(round))
		} else {
			material = shake.Sum(512, key, []byte(shake.TagSBox), shake.U16(round), shake.U16(uint16(attempt)))
		}
		perm := shuffle(material)
		if Meets(&perm, th) {
			return perm, nil
		}
	}
	var zero [256]byte
	return zero, ErrGenerationFailed
}

// shuffle builds the identity permutation and applies Fisher-Yates from
// i=255 down to 1, taking the big-endian 16-bit value at offset 2*(255-i)
// reduced modulo i+1.
func shuffle(material []byte) [256]byte {
	var perm [256]byte
	for i := range perm {
		perm[i] = byte(i)
	}
	for i := 255; i >= 1; i-- {
		v := binary.BigEndian.Uint16(material[2*(255-i):])
		j := int(v) % (i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Meets reports whether the permutation satisfies every threshold.
func Meets(s *[256]byte, th Thresholds) bool {
	return IsBijective(s) &&
		Nonlinearity(s) >= th.MinNonlinearity &&
		DifferentialUniformity(s) <= th.MaxDifferentialUniformity &&
		AlgebraicDegree(s) >= th.MinAlgebraicDegree
}

// IsBijective reports whether every value 0..255 appears exactly once.
func IsBijective(s *[256]byte) bool {
	var seen [256]bool
	for _, v := range s {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Nonlinearity computes 128 - max|WHT|/2 over all 255 non-zero output masks,
// using the fast Walsh-Hadamard transform over the 256 inputs.
func Nonlinearity(s *[256]byte) int {
	maxAbs := 0
	var f [256]int
	for mask := 1; mask < 256; mask++ {
		for x := 0; x < 256; x++ {
			if bits.OnesCount8(s[x]&byte(mask))&1 == 1 {
				f[x] = -1
			} else {
				f[x] = 1
			}
		}
		for step := 1; step < 256; step <<= 1 {
			for i := 0; i < 256; i += step << 1 {
				for j := i; j < i+step; j++ {
					u, v := f[j], f[j+step]
					f[j], f[j+step] = u+v, u-v
				}
			}
		}
		for _, w := range f {
			if w < 0 {
				w = -w
			}
			if w > maxAbs {
				maxAbs = w
			}
		}
	}
	return 128 - maxAbs/2
}

// DifferentialUniformity computes the maximum count, over non-zero input
// differences a, of pairs (x, x^a) sharing an output XOR.
func DifferentialUniformity(s *[256]byte) int {
	max := 0
	for a := 1; a < 256; a++ {
		var cnt [256]int
		for x := 0; x < 256; x++ {
			d := s[x] ^ s[x^a]
			cnt[d]++
			if cnt[d] > max {
				max = cnt[d]
			}
		}
	}
	return max
}

// AlgebraicDegree computes, per output-bit component, the maximum Hamming
// weight of an index with a non-zero ANF coefficient (Moebius transform),
// and returns the minimum over the eight components.
func AlgebraicDegree(s *[256]byte) int {
	min := 8
	for bit := 0; bit < 8; bit++ {
		var f [256]byte
		for x := range f {
			f[x] = (s[x] >> bit) & 1
		}
		for step := 1; step < 256; step <<= 1 {
			for i := 0; i < 256; i += step << 1 {
				for j := i; j < i+step; j++ {
					f[j+step] ^= f[j]
				}
			}
		}
		deg := 0
		for x, v := range f {
			if v == 1 {
				if w := bits.OnesCount(uint(x)); w > deg {
					deg = w
				}
			}
		}
		if deg < min {
			min = deg
		}
	}
	return min
}
