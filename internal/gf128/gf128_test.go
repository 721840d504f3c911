// Copyright (c) 2025, The RUC Authors.
// See LICENSE for licensing information.

package gf128

import (
	"bytes"
	"testing"
)

// one is the multiplicative identity: the polynomial 1.
var one = Element{Hi: 0, Lo: 1}

// sample builds a deterministic element from a seed.
func sample(seed uint64) Element {
	x := seed*0x9e3779b97f4a7c15 + 1
	y := x*0xbf58476d1ce4e5b9 + seed
	return Element{Hi: x, Lo: y}
}

func TestBytesRoundTrip(t *testing.T) {
	t.Parallel()

	in := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
		0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10}
	e := FromBytes(in)
	out := e.Bytes()
	if !bytes.Equal(in, out[:]) {
		t.Fatalf("Bytes round trip mismatch: in %x out %x", in, out)
	}
}

func TestMulIdentityAndZero(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 64; seed++ {
		a := sample(seed)
		if got := Mul(a, one); got != a {
			t.Fatalf("Mul(a, 1) != a for seed %d: %+v", seed, got)
		}
		if got := Mul(one, a); got != a {
			t.Fatalf("Mul(1, a) != a for seed %d: %+v", seed, got)
		}
		if got := Mul(a, Element{}); got != (Element{}) {
			t.Fatalf("Mul(a, 0) != 0 for seed %d: %+v", seed, got)
		}
	}
}

func TestMulX(t *testing.T) {
	t.Parallel()

	// Multiplying by x shifts left by one; overflow of x^127 folds the
	// reduction polynomial back in.
	x := Element{Hi: 0, Lo: 2}
	got := Mul(Element{Hi: 0, Lo: 1}, x)
	if got != x {
		t.Fatalf("1 * x = %+v, want %+v", got, x)
	}
	top := Element{Hi: 1 << 63, Lo: 0}
	got = Mul(top, x)
	want := Element{Hi: 0, Lo: 0x87}
	if got != want {
		t.Fatalf("x^127 * x = %+v, want %+v", got, want)
	}
}

func TestMulCommutative(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 64; seed++ {
		a, b := sample(seed), sample(seed+1000)
		if Mul(a, b) != Mul(b, a) {
			t.Fatalf("Mul not commutative for seed %d", seed)
		}
	}
}

func TestMulDistributive(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 64; seed++ {
		a, b, c := sample(seed), sample(seed+1000), sample(seed+2000)
		left := Mul(a, b.Xor(c))
		right := Mul(a, b).Xor(Mul(a, c))
		if left != right {
			t.Fatalf("Mul not distributive for seed %d: %+v != %+v", seed, left, right)
		}
	}
}

func TestMulAssociative(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 32; seed++ {
		a, b, c := sample(seed), sample(seed+1000), sample(seed+2000)
		if Mul(Mul(a, b), c) != Mul(a, Mul(b, c)) {
			t.Fatalf("Mul not associative for seed %d", seed)
		}
	}
}

func BenchmarkMul(b *testing.B) {
	x, y := sample(1), sample(2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = Mul(x, y)
	}
}
