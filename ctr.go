// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rosettascript/ruc/internal/shake"
	"github.com/rosettascript/ruc/internal/word"
)

// ctrParallelThreshold is the block count at and above which CTR fans out
// across goroutines. Blocks are independent, each produced from its own clone of
// the message-initial state, so the parallel path is bit-identical to the
// sequential one.
const ctrParallelThreshold = 8

// EncryptCTR encrypts plaintext in counter mode under a 16-byte nonce and
// returns the envelope nonce || ciphertext. The plaintext is PKCS#7 padded,
// so the ciphertext is always a whole number of 32-byte blocks; a full pad
// block is appended when the length is already aligned. The nonce must be
// unique per key.
func (km *KeyMaterial) EncryptCTR(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonceLength, len(nonce), NonceSize)
	}
	initial, err := km.MixIV(shake.Sum(IVSize, nonce, []byte(shake.TagCTRIV)))
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize+len(plaintext)+padLen(len(plaintext)))
	copy(out, nonce)
	copy(out[NonceSize:], pad(plaintext))
	km.ctrXOR(initial, out[NonceSize:], 0)
	return out, nil
}

// DecryptCTR inverts EncryptCTR and strips the padding.
func (km *KeyMaterial) DecryptCTR(envelope []byte) ([]byte, error) {
	if len(envelope) < NonceSize+BlockSize || (len(envelope)-NonceSize)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: CTR envelope of %d bytes", ErrInvalidCiphertextLength, len(envelope))
	}
	nonce := envelope[:NonceSize]
	initial, err := km.MixIV(shake.Sum(IVSize, nonce, []byte(shake.TagCTRIV)))
	if err != nil {
		return nil, err
	}

	body := make([]byte, len(envelope)-NonceSize)
	copy(body, envelope[NonceSize:])
	km.ctrXOR(initial, body, 0)
	return unpad(body)
}

// padLen is the number of pad bytes appended to a plaintext of length n.
func padLen(n int) int {
	return BlockSize - n%BlockSize
}

// ctrKeystream derives the keystream for block n from a fresh clone of the
// message-initial state: the counter is folded into register 0 through a
// SHAKE expansion, then the round engine runs without ciphertext feedback.
func (km *KeyMaterial) ctrKeystream(initial *State, n uint64) [BlockSize]byte {
	st := initial.Clone()
	fold := word.FromBytes(shake.Sum(64, shake.U64(n), []byte(shake.TagCounter)))
	st.regs[0] = st.regs[0].Xor(fold)
	return km.keystream(st, n)
}

// ctrXOR XORs the per-block keystream into body in place. body must be a
// whole number of blocks; block i uses counter startBlock+i. Large messages
// fan out across goroutines with disjoint output regions, which keeps the
// result identical to the sequential reference.
func (km *KeyMaterial) ctrXOR(initial *State, body []byte, startBlock uint64) {
	blocks := len(body) / BlockSize

	xorBlock := func(i int) {
		ks := km.ctrKeystream(initial, startBlock+uint64(i))
		chunk := body[i*BlockSize : (i+1)*BlockSize]
		for j := range chunk {
			chunk[j] ^= ks[j]
		}
	}

	if blocks < ctrParallelThreshold {
		for i := 0; i < blocks; i++ {
			xorBlock(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < blocks; i++ {
		g.Go(func() error {
			xorBlock(i)
			return nil
		})
	}
	// The workers cannot fail; Wait only joins them.
	_ = g.Wait()
}
