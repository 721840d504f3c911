// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/rosettascript/ruc/internal/chacha"
	"github.com/rosettascript/ruc/internal/gf128"
	"github.com/rosettascript/ruc/internal/sbox"
	"github.com/rosettascript/ruc/internal/shake"
	"github.com/rosettascript/ruc/internal/word"
)

// SBoxThresholds is the acceptance predicate applied to every candidate
// S-box during key expansion.
type SBoxThresholds struct {
	MinNonlinearity           int
	MaxDifferentialUniformity int
	MinAlgebraicDegree        int
}

// StrictSBoxThresholds is the normative production predicate. A key whose
// S-boxes cannot meet it within the retry cap fails expansion with
// ErrSBoxGenerationFailed; the thresholds are never lowered silently.
var StrictSBoxThresholds = SBoxThresholds{
	MinNonlinearity:           100,
	MaxDifferentialUniformity: 4,
	MinAlgebraicDegree:        7,
}

// RelaxedSBoxThresholds is the bound sanctioned for randomised self-tests.
var RelaxedSBoxThresholds = SBoxThresholds{
	MinNonlinearity:           90,
	MaxDifferentialUniformity: 16,
	MinAlgebraicDegree:        6,
}

// Options configures key expansion. The zero value selects the strict
// thresholds and the default retry cap.
type Options struct {
	// SBox is the acceptance predicate. Zero value means strict.
	SBox SBoxThresholds
	// SBoxRetryCap bounds the rejection loop per round S-box. Zero means
	// the default cap of 100.
	SBoxRetryCap int
}

func (o Options) normalize() Options {
	if o.SBox == (SBoxThresholds{}) {
		o.SBox = StrictSBoxThresholds
	}
	if o.SBoxRetryCap == 0 {
		o.SBoxRetryCap = sbox.DefaultRetryCap
	}
	return o
}

// KeyMaterial holds everything derived from a master key: the key-expanded
// registers, the odd selector sequence, 24 round keys, 24 accepted S-boxes
// and the per-selector key constants. It is immutable after construction
// and safe for concurrent readers; callers never see intermediate state.
type KeyMaterial struct {
	key       [KeySize]byte
	regs      [numRegisters]word.Word
	selectors []uint16
	roundKeys [numRounds]word.Word
	sboxes    [numRounds][256]byte
	consts    map[uint16]byte
	opts      Options

	// AEAD sub-keys are derived on first use so CTR/CBC-only sessions
	// never pay the second key expansion.
	aeadOnce sync.Once
	aeadEnc  *KeyMaterial
	aeadH    gf128.Element
	aeadErr  error
}

// ExpandKey deterministically derives all round material from the 64-byte
// master key using the strict S-box acceptance predicate. Identical keys
// yield identical material.
func ExpandKey(key []byte) (*KeyMaterial, error) {
	return ExpandKeyWithOptions(key, Options{})
}

// ExpandKeyWithOptions is ExpandKey with an explicit acceptance predicate
// and retry cap.
func ExpandKeyWithOptions(key []byte, opts Options) (*KeyMaterial, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(key), KeySize)
	}
	opts = opts.normalize()

	km := &KeyMaterial{opts: opts}
	copy(km.key[:], key)

	// Seven 512-bit registers, one SHAKE call per register index.
	for i := 0; i < numRegisters; i++ {
		km.regs[i] = word.FromBytes(shake.Sum(64, key, []byte(shake.TagRegister), []byte{byte(i)}))
	}

	// Selector count is key-dependent: 16 + (K[1] mod 16), so 16..31.
	n := 16 + int(key[1]%16)
	km.selectors = make([]uint16, n)
	for j := 0; j < n; j++ {
		s := binary.BigEndian.Uint16(shake.Sum(2, key, []byte(shake.TagSelector), shake.U16(uint16(j))))
		if s%2 == 0 {
			s++
		}
		if s == 0 {
			s = 1
		}
		km.selectors[j] = s
	}

	// Permute the selectors with a ChaCha20 stream keyed off the master key.
	var permSeed [32]byte
	copy(permSeed[:], shake.Sum(32, key, []byte(shake.TagPermute)))
	stream := chacha.New(permSeed)
	for i := n - 1; i >= 1; i-- {
		j := int(stream.Uint32() % uint32(i+1))
		km.selectors[i], km.selectors[j] = km.selectors[j], km.selectors[i]
	}

	for r := 0; r < numRounds; r++ {
		km.roundKeys[r] = word.FromBytes(shake.Sum(64, key, []byte(shake.TagRoundKey), shake.U16(uint16(r))))
	}

	th := sbox.Thresholds{
		MinNonlinearity:           opts.SBox.MinNonlinearity,
		MaxDifferentialUniformity: opts.SBox.MaxDifferentialUniformity,
		MinAlgebraicDegree:        opts.SBox.MinAlgebraicDegree,
	}
	for r := 0; r < numRounds; r++ {
		box, err := sbox.Generate(key, uint16(r), th, opts.SBoxRetryCap)
		if err != nil {
			return nil, fmt.Errorf("%w: round %d exhausted %d retries", ErrSBoxGenerationFailed, r, opts.SBoxRetryCap)
		}
		km.sboxes[r] = box
	}

	// Key constants for every distinct selector value.
	km.consts = make(map[uint16]byte, n)
	for _, sel := range km.selectors {
		if _, ok := km.consts[sel]; !ok {
			km.consts[sel] = shake.Sum(1, key, []byte(shake.TagConst), shake.U16(sel))[0]
		}
	}

	return km, nil
}

// SelectorCount reports the key-dependent length of the selector sequence.
func (km *KeyMaterial) SelectorCount() int {
	return len(km.selectors)
}

// Zeroize overwrites the key material in place. The KeyMaterial must not be
// used afterwards.
func (km *KeyMaterial) Zeroize() {
	for i := range km.key {
		km.key[i] = 0
	}
	for i := range km.regs {
		km.regs[i] = word.Word{}
	}
	for i := range km.roundKeys {
		km.roundKeys[i] = word.Word{}
	}
	for i := range km.sboxes {
		km.sboxes[i] = [256]byte{}
	}
	for i := range km.selectors {
		km.selectors[i] = 0
	}
	for sel := range km.consts {
		delete(km.consts, sel)
	}
	if km.aeadEnc != nil {
		km.aeadEnc.Zeroize()
	}
}
