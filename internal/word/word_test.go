// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package word

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/rosettascript/ruc/internal/gf256"
)

// testPattern fills 64 bytes with a position-dependent pattern so every
// limb and byte lane is distinguishable.
func testPattern(seed byte) []byte {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i)*29 + seed
	}
	return b
}

// mod512 is 2^512, for the big.Int reference implementations.
var mod512 = new(big.Int).Lsh(big.NewInt(1), 512)

func refRol(b []byte, k uint) []byte {
	v := new(big.Int).SetBytes(b)
	hi := new(big.Int).Lsh(v, k)
	lo := new(big.Int).Rsh(v, 512-k)
	hi.Or(hi.Mod(hi, mod512), lo)
	return hi.FillBytes(make([]byte, 64))
}

func TestBytesRoundTrip(t *testing.T) {
	t.Parallel()

	in := testPattern(3)
	w := FromBytes(in)
	out := w.Bytes()
	if !bytes.Equal(in, out[:]) {
		t.Fatalf("Bytes round trip mismatch:\n in %x\nout %x", in, out)
	}
}

func TestByteAccessors(t *testing.T) {
	t.Parallel()

	in := testPattern(7)
	w := FromBytes(in)
	for i := 0; i < 64; i++ {
		if got := w.Byte(i); got != in[i] {
			t.Fatalf("Byte(%d) = %#02x, want %#02x", i, got, in[i])
		}
	}
	if w.TopByte() != in[0] {
		t.Errorf("TopByte = %#02x, want %#02x", w.TopByte(), in[0])
	}
	if w.LowByte() != in[63] {
		t.Errorf("LowByte = %#02x, want %#02x", w.LowByte(), in[63])
	}
	want32 := uint32(in[60])<<24 | uint32(in[61])<<16 | uint32(in[62])<<8 | uint32(in[63])
	if w.Low32() != want32 {
		t.Errorf("Low32 = %#08x, want %#08x", w.Low32(), want32)
	}
}

func TestRolAgainstReference(t *testing.T) {
	t.Parallel()

	in := testPattern(11)
	w := FromBytes(in)
	for _, k := range []uint{0, 1, 7, 8, 17, 41, 63, 64, 65, 73, 255, 256, 365, 511} {
		got := w.Rol(k).Bytes()
		want := refRol(in, k%512)
		if !bytes.Equal(got[:], want) {
			t.Errorf("Rol(%d) mismatch:\n got %x\nwant %x", k, got, want)
		}
	}
}

func TestRolFullCircle(t *testing.T) {
	t.Parallel()

	w := FromBytes(testPattern(13))
	if got := w.Rol(512); got != w {
		t.Error("Rol(512) should be the identity")
	}
	if got := w.Rol(137).Rol(512 - 137); got != w {
		t.Error("Rol(k) then Rol(512-k) should be the identity")
	}
}

func TestGFMulByteWise(t *testing.T) {
	t.Parallel()

	in := testPattern(17)
	w := FromBytes(in)
	for _, m := range []byte{0, 1, 2, 0x57, 0xff} {
		got := w.GFMul(m).Bytes()
		for i := 0; i < 64; i++ {
			want := gf256.Mul(in[i], m)
			if got[i] != want {
				t.Fatalf("GFMul(%#02x) byte %d = %#02x, want %#02x", m, i, got[i], want)
			}
		}
	}
}

func TestXorByteShifted(t *testing.T) {
	t.Parallel()

	var zero Word
	for shift := uint(0); shift < 16; shift++ {
		got := zero.XorByteShifted(0xff, shift)
		ref := new(big.Int).Lsh(big.NewInt(0xff), shift)
		want := ref.FillBytes(make([]byte, 64))
		gb := got.Bytes()
		if !bytes.Equal(gb[:], want) {
			t.Fatalf("XorByteShifted(0xff, %d) mismatch:\n got %x\nwant %x", shift, gb, want)
		}
	}

	// Crossing a limb boundary.
	got := zero.XorByteShifted(0xab, 60)
	ref := new(big.Int).Lsh(big.NewInt(0xab), 60)
	want := ref.FillBytes(make([]byte, 64))
	gb := got.Bytes()
	if !bytes.Equal(gb[:], want) {
		t.Fatalf("XorByteShifted(0xab, 60) mismatch:\n got %x\nwant %x", gb, want)
	}

	// Bits past 511 are discarded.
	got = zero.XorByteShifted(0xff, 508)
	ref = new(big.Int).Lsh(big.NewInt(0xff), 508)
	ref.Mod(ref, mod512)
	want = ref.FillBytes(make([]byte, 64))
	gb = got.Bytes()
	if !bytes.Equal(gb[:], want) {
		t.Fatalf("XorByteShifted(0xff, 508) mismatch:\n got %x\nwant %x", gb, want)
	}
}

func TestXor256Shifted(t *testing.T) {
	t.Parallel()

	var c [32]byte
	copy(c[:], testPattern(19))

	var zero Word
	for _, shift := range []uint{0, 1, 37, 74, 111, 148, 185, 222, 255} {
		got := zero.Xor256Shifted(c, shift)
		ref := new(big.Int).SetBytes(c[:])
		ref.Lsh(ref, shift)
		ref.Mod(ref, mod512)
		want := ref.FillBytes(make([]byte, 64))
		gb := got.Bytes()
		if !bytes.Equal(gb[:], want) {
			t.Fatalf("Xor256Shifted(%d) mismatch:\n got %x\nwant %x", shift, gb, want)
		}
	}
}

func TestAccAddByte(t *testing.T) {
	t.Parallel()

	var a Acc
	a.AddByte(200)
	a.AddByte(100)
	out := a.Bytes()
	if out[126] != 1 || out[127] != 44 {
		t.Fatalf("Acc after 200+100 = %x, want ...012c", out[120:])
	}

	// Carry propagation across saturated limbs.
	var b Acc
	for i := 1; i < 16; i++ {
		b[i] = ^uint64(0)
	}
	b.AddByte(1)
	if b[0] != 1 {
		t.Errorf("carry did not propagate into limb 0: %#x", b[0])
	}
	for i := 1; i < 16; i++ {
		if b[i] != 0 {
			t.Errorf("limb %d = %#x, want 0", i, b[i])
		}
	}

	// Modular wrap: all limbs saturated drops the final carry.
	var c Acc
	for i := range c {
		c[i] = ^uint64(0)
	}
	c.AddByte(1)
	for i := range c {
		if c[i] != 0 {
			t.Fatalf("limb %d = %#x after wrap, want 0", i, c[i])
		}
	}
}
