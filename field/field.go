// Package field provides the finite field arithmetic consumed by the
// elimination engine.
package field

import "math/big"

// Element represents an element in a finite field
type Element interface {
	// Add returns a + b in the field
	Add(b Element) Element

	// Sub returns a - b in the field
	Sub(b Element) Element

	// Neg returns -a in the field
	Neg() Element

	// Mul returns a * b in the field
	Mul(b Element) Element

	// Inv returns the multiplicative inverse of a. It panics on zero.
	Inv() Element

	// IsZero returns true if the element is the zero element
	IsZero() bool

	// IsOne returns true if the element is the multiplicative identity
	IsOne() bool

	// Equal returns true if two elements are equal
	Equal(b Element) bool

	// Clone returns a copy of the element
	Clone() Element

	// Bytes returns the big-endian byte representation of the element
	Bytes() []byte

	// Bits returns the bit representation with specified bit length
	Bits(bitLen int) []byte

	// String returns the string representation of the element
	String() string
}

// Field represents a finite field
type Field interface {
	// Zero returns the zero element of the field
	Zero() Element

	// One returns the one element of the field
	One() Element

	// Random returns a random element in the field
	Random() (Element, error)

	// FromUint64 maps a small integer into the field
	FromUint64(v uint64) Element

	// FromBytes creates a field element from big-endian bytes
	FromBytes(data []byte) Element

	// FromBits creates a field element from bits with specified bit length
	FromBits(data []byte, bitLen int) Element

	// BitsPerElement returns the number of bits needed to store any element
	BitsPerElement() int

	// Order returns the order (size) of the field
	Order() *big.Int

	// Characteristic returns the characteristic of the field
	Characteristic() *big.Int
}

// IsGF2 reports whether f is the two-element field.
func IsGF2(f Field) bool {
	return f.Order().Cmp(big.NewInt(2)) == 0
}

// bitsOf writes the low bitLen bits of v, most significant first.
func bitsOf(v *big.Int, bitLen int) []byte {
	result := make([]byte, (bitLen+7)/8)
	for i := 0; i < bitLen; i++ {
		if v.Bit(bitLen-1-i) == 1 {
			result[i/8] |= 1 << (7 - i%8)
		}
	}
	return result
}

// intFromBits is the inverse of bitsOf.
func intFromBits(data []byte, bitLen int) *big.Int {
	val := new(big.Int)
	for i := 0; i < bitLen; i++ {
		byteIdx := i / 8
		if byteIdx < len(data) && data[byteIdx]&(1<<(7-i%8)) != 0 {
			val.SetBit(val, bitLen-1-i, 1)
		}
	}
	return val
}
