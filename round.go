// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"sort"

	"github.com/rosettascript/ruc/internal/chacha"
	"github.com/rosettascript/ruc/internal/gf256"
	"github.com/rosettascript/ruc/internal/shake"
	"github.com/rosettascript/ruc/internal/word"
)

// selectorOrder computes the per-block processing order of the selector
// slots. A ChaCha20 stream seeded from (K, IV, n) assigns each slot a
// priority in [0,7); slots are stable-sorted by priority so ties keep
// their original index order.
func (km *KeyMaterial) selectorOrder(iv []byte, n uint64) []int {
	var seed [32]byte
	copy(seed[:], shake.Sum(32, km.key[:], iv, shake.U64(n), []byte(shake.TagPriority)))
	stream := chacha.New(seed)

	priorities := make([]uint32, len(km.selectors))
	for j := range priorities {
		priorities[j] = stream.Uint32() % numRegisters
	}

	order := make([]int, len(km.selectors))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priorities[order[a]] < priorities[order[b]]
	})
	return order
}

// keystream runs the 24-round block transform on st in place and squeezes
// the 256-bit keystream for block n. The keystream is a pure function of
// (key, IV, prior state, n); decryption reuses it unchanged.
func (km *KeyMaterial) keystream(st *State, n uint64) [BlockSize]byte {
	order := km.selectorOrder(st.iv[:], n)

	var acc word.Acc
	for r := 0; r < numRounds; r++ {
		rk := km.roundKeys[r].Low32()
		box := &km.sboxes[r]

		for _, j := range order {
			sel := km.selectors[j]

			place := (st.regs[0].Low32() ^ uint32(sel) ^ rk) % numRegisters
			temp := sel * 2 // wraps mod 2^16
			stateByte := st.regs[place].TopByte()
			gfResult := gf256.Mul(byte(temp), stateByte) ^ km.consts[sel]
			result := box[gfResult]

			reg := st.regs[place].GFMul(result)
			reg = reg.XorByteShifted(result, uint(sel%16))
			reg = reg.XorLowByte(box[reg.LowByte()])
			reg = reg.Rol(1)
			st.regs[place] = reg.Xor(st.regs[(place+1)%numRegisters])

			acc.AddByte(result)
		}

		// Inter-round diffusion: all seven registers update from a snapshot
		// taken before any of them is written.
		old := st.regs
		for i := range st.regs {
			st.regs[i] = old[i].
				Xor(old[(i+1)%numRegisters]).
				Xor(old[(i+2)%numRegisters])
		}
	}

	h := make([]byte, 0, 128+64*numRegisters+len(shake.TagKeystream)+8)
	accBytes := acc.Bytes()
	h = append(h, accBytes[:]...)
	for i := range st.regs {
		regBytes := st.regs[i].Bytes()
		h = append(h, regBytes[:]...)
	}
	h = append(h, shake.TagKeystream...)
	h = append(h, shake.U64(n)...)

	var ks [BlockSize]byte
	copy(ks[:], shake.Sum(BlockSize, h))
	return ks
}

// feedback folds the ciphertext block back into the state: each register
// absorbs the 256-bit ciphertext at a register-dependent shift. CTR mode
// skips this because every block runs on an independent clone; CBC keeps it
// across blocks.
func (s *State) feedback(c [BlockSize]byte) {
	for i := range s.regs {
		s.regs[i] = s.regs[i].Xor256Shifted(c, uint(i*37)%256)
	}
}
