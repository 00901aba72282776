package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// BinaryField represents a binary finite field GF(2^n)
type BinaryField struct {
	n           int      // field extension degree
	irreducible *big.Int // irreducible polynomial of degree n
}

// NewBinaryField creates a new binary field GF(2^n) with given irreducible polynomial
func NewBinaryField(n int, irreducible *big.Int) *BinaryField {
	return &BinaryField{
		n:           n,
		irreducible: new(big.Int).Set(irreducible),
	}
}

// NewGF2 creates the two-element field, the specialization served by the
// bit-packed matrix representations.
func NewGF2() *BinaryField {
	// x + 1
	return NewBinaryField(1, big.NewInt(0b11))
}

// NewBinaryFieldGF2_8 creates GF(2^8) with irreducible polynomial x^8 + x^4 + x^3 + x + 1
func NewBinaryFieldGF2_8() *BinaryField {
	return NewBinaryField(8, big.NewInt(0x11B))
}

// NewBinaryFieldGF2_32 creates GF(2^32) with irreducible polynomial x^32 + x^7 + x^3 + x^2 + 1
func NewBinaryFieldGF2_32() *BinaryField {
	return NewBinaryField(32, big.NewInt(0x10000008D))
}

// BinaryFieldElement represents an element in a binary field
type BinaryFieldElement struct {
	value *big.Int     // polynomial representation
	field *BinaryField // reference to parent field
}

func (f *BinaryField) elem(v *big.Int) *BinaryFieldElement {
	return &BinaryFieldElement{value: polyMod(v, f.irreducible), field: f}
}

// Zero returns the additive identity element (0)
func (f *BinaryField) Zero() Element {
	return &BinaryFieldElement{value: new(big.Int), field: f}
}

// One returns the multiplicative identity element (1)
func (f *BinaryField) One() Element {
	return &BinaryFieldElement{value: big.NewInt(1), field: f}
}

// Random returns a uniformly random field element
func (f *BinaryField) Random() (Element, error) {
	max := new(big.Int).Lsh(big.NewInt(1), uint(f.n))
	val, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, err
	}
	return &BinaryFieldElement{value: val, field: f}, nil
}

// FromUint64 interprets v as a polynomial and reduces it
func (f *BinaryField) FromUint64(v uint64) Element {
	return f.elem(new(big.Int).SetUint64(v))
}

// FromBytes creates a field element from byte array
func (f *BinaryField) FromBytes(data []byte) Element {
	return f.elem(new(big.Int).SetBytes(data))
}

// FromBits creates a field element from bits with specified bit length
func (f *BinaryField) FromBits(data []byte, bitLen int) Element {
	return f.elem(intFromBits(data, bitLen))
}

// BitsPerElement returns the number of bits per field element
func (f *BinaryField) BitsPerElement() int {
	return f.n
}

// Order returns 2^n
func (f *BinaryField) Order() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(f.n))
}

// Characteristic returns 2
func (f *BinaryField) Characteristic() *big.Int {
	return big.NewInt(2)
}

// Degree returns n
func (f *BinaryField) Degree() int {
	return f.n
}

// Irreducible returns the reduction polynomial
func (f *BinaryField) Irreducible() *big.Int {
	return new(big.Int).Set(f.irreducible)
}

func (e *BinaryFieldElement) other(b Element) *BinaryFieldElement {
	o, ok := b.(*BinaryFieldElement)
	if !ok || o.field.n != e.field.n {
		panic("incompatible field elements")
	}
	return o
}

// Add returns e + b in the field (XOR operation)
func (e *BinaryFieldElement) Add(b Element) Element {
	return &BinaryFieldElement{value: new(big.Int).Xor(e.value, e.other(b).value), field: e.field}
}

// Sub returns e - b in the field (same as Add in GF(2^n))
func (e *BinaryFieldElement) Sub(b Element) Element {
	return e.Add(b)
}

// Neg returns e; every element is its own additive inverse
func (e *BinaryFieldElement) Neg() Element {
	return e.Clone()
}

// Mul returns e * b in the field using polynomial multiplication with reduction
func (e *BinaryFieldElement) Mul(b Element) Element {
	return e.field.elem(polyMul(e.value, e.other(b).value))
}

// Inv returns the multiplicative inverse of e using extended Euclidean algorithm
func (e *BinaryFieldElement) Inv() Element {
	if e.IsZero() {
		panic("zero element is not invertible")
	}

	oldR := new(big.Int).Set(e.field.irreducible)
	r := new(big.Int).Set(e.value)
	oldS := new(big.Int)
	s := big.NewInt(1)

	for r.Sign() > 0 {
		q, rem := polyDivMod(oldR, r)
		oldR, r = r, rem
		oldS, s = s, new(big.Int).Xor(oldS, polyMul(q, s))
	}

	return e.field.elem(oldS)
}

// IsZero returns true if e equals zero
func (e *BinaryFieldElement) IsZero() bool {
	return e.value.Sign() == 0
}

// IsOne returns true if e equals one
func (e *BinaryFieldElement) IsOne() bool {
	return e.value.IsInt64() && e.value.Int64() == 1
}

// Equal returns true if e equals b
func (e *BinaryFieldElement) Equal(b Element) bool {
	other, ok := b.(*BinaryFieldElement)
	if !ok {
		return false
	}
	return e.value.Cmp(other.value) == 0
}

// Clone returns a copy of e
func (e *BinaryFieldElement) Clone() Element {
	return &BinaryFieldElement{value: new(big.Int).Set(e.value), field: e.field}
}

// Bytes returns the byte representation of e
func (e *BinaryFieldElement) Bytes() []byte {
	return e.value.Bytes()
}

// Bits returns the bit representation with specified bit length
func (e *BinaryFieldElement) Bits(bitLen int) []byte {
	return bitsOf(e.value, bitLen)
}

// String returns the string representation of e
func (e *BinaryFieldElement) String() string {
	return fmt.Sprintf("0x%x", e.value)
}

// BigInt returns the underlying big.Int value
func (e *BinaryFieldElement) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}

// polyMul multiplies two polynomials over GF(2)
func polyMul(a, b *big.Int) *big.Int {
	result := new(big.Int)
	x := new(big.Int).Set(a)
	for i := 0; i < b.BitLen(); i++ {
		if b.Bit(i) == 1 {
			result.Xor(result, x)
		}
		x.Lsh(x, 1)
	}
	return result
}

// polyDivMod performs polynomial division over GF(2)
func polyDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	if b.Sign() == 0 {
		panic("division by zero polynomial")
	}
	quotient := new(big.Int)
	remainder := new(big.Int).Set(a)
	bDegree := b.BitLen() - 1
	for remainder.BitLen() > bDegree {
		shift := remainder.BitLen() - 1 - bDegree
		quotient.SetBit(quotient, shift, 1)
		remainder.Xor(remainder, new(big.Int).Lsh(b, uint(shift)))
	}
	return quotient, remainder
}

func polyMod(a, m *big.Int) *big.Int {
	_, r := polyDivMod(a, m)
	return r
}

// IsIrreducible reports whether p, read as a polynomial over GF(2) with bit i
// the coefficient of x^i, is irreducible. It runs Rabin's test: x^(2^n) = x
// mod p, and x^(2^(n/q)) - x is coprime to p for every prime q dividing n.
func IsIrreducible(p *big.Int) bool {
	n := p.BitLen() - 1
	if n < 1 {
		return false
	}
	x := polyMod(big.NewInt(0b10), p)
	frobenius := func(k int) *big.Int {
		r := new(big.Int).Set(x)
		for i := 0; i < k; i++ {
			r = polyMod(polyMul(r, r), p)
		}
		return r
	}
	if frobenius(n).Cmp(x) != 0 {
		return false
	}
	for _, q := range primeFactors(n) {
		d := new(big.Int).Xor(frobenius(n/q), x)
		if polyGCD(d, p).BitLen() != 1 {
			return false
		}
	}
	return true
}

func polyGCD(a, b *big.Int) *big.Int {
	a, b = new(big.Int).Set(a), new(big.Int).Set(b)
	for b.Sign() != 0 {
		a, b = b, polyMod(a, b)
	}
	return a
}

func primeFactors(n int) []int {
	var fs []int
	for q := 2; q*q <= n; q++ {
		if n%q == 0 {
			fs = append(fs, q)
			for n%q == 0 {
				n /= q
			}
		}
	}
	if n > 1 {
		fs = append(fs, n)
	}
	return fs
}
