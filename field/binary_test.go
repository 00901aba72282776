package field

import (
	"math/big"
	"testing"
)

func TestGF2(t *testing.T) {
	f := NewGF2()
	zero, one := f.Zero(), f.One()

	if !IsGF2(f) {
		t.Fatalf("NewGF2 should report order 2")
	}
	if !one.Add(one).IsZero() {
		t.Errorf("1 + 1 should be 0")
	}
	if !one.Mul(one).IsOne() || !one.Mul(zero).IsZero() {
		t.Errorf("multiplication should be AND")
	}
	if !one.Inv().IsOne() {
		t.Errorf("inverse of 1 should be 1")
	}
	if !one.Neg().IsOne() {
		t.Errorf("-1 should be 1")
	}
	// x = 1 mod x+1
	if !f.FromUint64(2).IsOne() {
		t.Errorf("x should reduce to 1, got %s", f.FromUint64(2))
	}
}

func TestBinaryFieldBasic(t *testing.T) {
	f := NewBinaryFieldGF2_32()

	a := f.FromBytes([]byte{0x12, 0x34, 0x56, 0x78})
	b := f.FromBytes([]byte{0x9A, 0xBC, 0xDE, 0xF0})

	// 0x12345678 ^ 0x9ABCDEF0 = 0x88888888
	expected := f.FromBytes([]byte{0x88, 0x88, 0x88, 0x88})
	if got := a.Add(b); !got.Equal(expected) {
		t.Errorf("addition failed: expected %s, got %s", expected, got)
	}
	if got := a.Sub(b); !got.Equal(expected) {
		t.Errorf("subtraction failed: expected %s, got %s", expected, got)
	}
	if got := a.Mul(f.One()); !got.Equal(a) {
		t.Errorf("multiplication by one failed: expected %s, got %s", a, got)
	}
	if got := a.Mul(a.Inv()); !got.IsOne() {
		t.Errorf("a * a^-1 should be one, got %s", got)
	}
}

func TestBinaryFieldGF256Inverses(t *testing.T) {
	f := NewBinaryFieldGF2_8()
	for v := uint64(1); v < 256; v++ {
		e := f.FromUint64(v)
		if !e.Mul(e.Inv()).IsOne() {
			t.Fatalf("inverse of 0x%x is wrong", v)
		}
	}
	// 0x53 * 0xCA = 1 in the AES field
	if got := f.FromUint64(0x53).Mul(f.FromUint64(0xCA)); !got.IsOne() {
		t.Errorf("0x53 * 0xCA: expected 1, got %s", got)
	}
}

func TestIsIrreducible(t *testing.T) {
	irreducible := []uint64{0b10, 0b11, 0b111, 0b1011, 0x11B, 0x10000008D}
	for _, p := range irreducible {
		if !IsIrreducible(new(big.Int).SetUint64(p)) {
			t.Errorf("%b should be irreducible", p)
		}
	}
	// x^2+1 = (x+1)^2, x^4+x^2+1 = (x^2+x+1)^2, x^6+x^5+x^4+x^3+x^2+x+1 = (x^3+x+1)(x^3+x^2+1)
	reducible := []uint64{0, 1, 0b101, 0b10101, 0b1111111, 0x11A, 0b110}
	for _, p := range reducible {
		if IsIrreducible(new(big.Int).SetUint64(p)) {
			t.Errorf("%b should be reducible", p)
		}
	}
}
