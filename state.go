// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package ruc

import (
	"fmt"

	"github.com/rosettascript/ruc/internal/shake"
	"github.com/rosettascript/ruc/internal/word"
)

// State is the seven-register working state of the cipher for one message.
// A message-initial State is produced once by MixIV; the block engine
// mutates either a per-block clone (CTR) or the State itself (CBC, block
// API). A State must not be shared between concurrent tasks.
type State struct {
	regs [numRegisters]word.Word
	iv   [IVSize]byte
}

// MixIV absorbs the 32-byte IV into the key-expanded registers and returns
// the per-message initial state: each register is whitened with a rotated
// SHAKE expansion of the IV, then cross-diffused for three rounds.
func (km *KeyMaterial) MixIV(iv []byte) (*State, error) {
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIVLength, len(iv), IVSize)
	}

	st := &State{regs: km.regs}
	copy(st.iv[:], iv)

	expanded := word.FromBytes(shake.Sum(64, iv, []byte(shake.TagIVExpand)))
	for i := range st.regs {
		st.regs[i] = st.regs[i].Xor(expanded.Rol(uint(i*73) % 512))
	}

	// Cross diffusion, three rounds. Registers update sequentially in index
	// order; later registers see earlier updates within the same round.
	for round := 0; round < 3; round++ {
		for i := range st.regs {
			st.regs[i] = st.regs[i].
				Xor(st.regs[(i+1)%numRegisters].Rol(17)).
				Xor(st.regs[(i+3)%numRegisters].Rol(41))
		}
	}

	return st, nil
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	c := *s
	return &c
}
