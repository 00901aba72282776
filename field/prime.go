package field

import (
	"crypto/rand"
	"math/big"
)

// PrimeField represents a prime finite field F_p
type PrimeField struct {
	p *big.Int // the prime modulus
}

// NewPrimeField creates a new prime field. p is assumed prime.
func NewPrimeField(p *big.Int) *PrimeField {
	return &PrimeField{p: new(big.Int).Set(p)}
}

// NewPrimeFieldUint64 is NewPrimeField for a word-sized modulus.
func NewPrimeFieldUint64(p uint64) *PrimeField {
	return NewPrimeField(new(big.Int).SetUint64(p))
}

// PrimeFieldElement represents an element in a prime field
type PrimeFieldElement struct {
	value *big.Int    // element value in range [0, p-1]
	field *PrimeField // reference to parent field
}

func (f *PrimeField) elem(v *big.Int) *PrimeFieldElement {
	return &PrimeFieldElement{value: v.Mod(v, f.p), field: f}
}

// Zero returns the additive identity element (0)
func (f *PrimeField) Zero() Element {
	return f.elem(new(big.Int))
}

// One returns the multiplicative identity element (1)
func (f *PrimeField) One() Element {
	return f.elem(big.NewInt(1))
}

// Random returns a uniformly random field element
func (f *PrimeField) Random() (Element, error) {
	val, err := rand.Int(rand.Reader, f.p)
	if err != nil {
		return nil, err
	}
	return f.elem(val), nil
}

// FromUint64 returns v mod p
func (f *PrimeField) FromUint64(v uint64) Element {
	return f.elem(new(big.Int).SetUint64(v))
}

// FromBytes creates a field element from byte array
func (f *PrimeField) FromBytes(data []byte) Element {
	return f.elem(new(big.Int).SetBytes(data))
}

// FromBits creates a field element from bits with specified bit length
func (f *PrimeField) FromBits(data []byte, bitLen int) Element {
	return f.elem(intFromBits(data, bitLen))
}

// BitsPerElement returns the number of bits per field element
func (f *PrimeField) BitsPerElement() int {
	return f.p.BitLen()
}

// Order returns p
func (f *PrimeField) Order() *big.Int {
	return new(big.Int).Set(f.p)
}

// Characteristic returns p
func (f *PrimeField) Characteristic() *big.Int {
	return new(big.Int).Set(f.p)
}

// Modulus returns the prime modulus
func (f *PrimeField) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

func (e *PrimeFieldElement) other(b Element) *PrimeFieldElement {
	o, ok := b.(*PrimeFieldElement)
	if !ok || o.field.p.Cmp(e.field.p) != 0 {
		panic("incompatible field elements")
	}
	return o
}

// Add returns e + b in the field
func (e *PrimeFieldElement) Add(b Element) Element {
	return e.field.elem(new(big.Int).Add(e.value, e.other(b).value))
}

// Sub returns e - b in the field
func (e *PrimeFieldElement) Sub(b Element) Element {
	return e.field.elem(new(big.Int).Sub(e.value, e.other(b).value))
}

// Neg returns -e in the field
func (e *PrimeFieldElement) Neg() Element {
	return e.field.elem(new(big.Int).Neg(e.value))
}

// Mul returns e * b in the field
func (e *PrimeFieldElement) Mul(b Element) Element {
	return e.field.elem(new(big.Int).Mul(e.value, e.other(b).value))
}

// Inv returns the multiplicative inverse of e
func (e *PrimeFieldElement) Inv() Element {
	inv := new(big.Int).ModInverse(e.value, e.field.p)
	if inv == nil {
		panic("element is not invertible")
	}
	return e.field.elem(inv)
}

// IsZero returns true if e equals zero
func (e *PrimeFieldElement) IsZero() bool {
	return e.value.Sign() == 0
}

// IsOne returns true if e equals one
func (e *PrimeFieldElement) IsOne() bool {
	return e.value.IsInt64() && e.value.Int64() == 1
}

// Equal returns true if e equals b
func (e *PrimeFieldElement) Equal(b Element) bool {
	other, ok := b.(*PrimeFieldElement)
	if !ok {
		return false
	}
	return e.value.Cmp(other.value) == 0
}

// Clone returns a copy of e
func (e *PrimeFieldElement) Clone() Element {
	return &PrimeFieldElement{value: new(big.Int).Set(e.value), field: e.field}
}

// Bytes returns the byte representation of e
func (e *PrimeFieldElement) Bytes() []byte {
	return e.value.Bytes()
}

// Bits returns the bit representation with specified bit length
func (e *PrimeFieldElement) Bits(bitLen int) []byte {
	return bitsOf(e.value, bitLen)
}

// String returns the string representation of e
func (e *PrimeFieldElement) String() string {
	return e.value.String()
}

// BigInt returns the underlying big.Int value
func (e *PrimeFieldElement) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}
