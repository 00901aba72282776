// Package wire converts fields, matrices and permutations to and from the
// protobuf messages in package pb.
package wire

import (
	"errors"
	"fmt"
	"math/big"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
)

var log = logging.Logger("wire")

const (
	// MaxModulusBits bounds the size of a decoded prime modulus.
	MaxModulusBits = 4096

	// MaxBinaryDegree bounds the extension degree of a decoded binary field.
	MaxBinaryDegree = 64
)

var (
	// ErrMalformed is returned for messages that do not describe a valid
	// value.
	ErrMalformed = errors.New("wire: malformed message")

	// ErrUnsupported is returned for values the codec has no encoding for.
	ErrUnsupported = errors.New("wire: unsupported value")
)

// EncodeField describes f.
func EncodeField(f field.Field) (*pb.FieldSpec, error) {
	switch f := f.(type) {
	case *field.PrimeField:
		return &pb.FieldSpec{
			Kind:    pb.FieldSpec_PRIME,
			Modulus: f.Modulus().Bytes(),
		}, nil
	case *field.BinaryField:
		return &pb.FieldSpec{
			Kind:    pb.FieldSpec_BINARY,
			Modulus: f.Irreducible().Bytes(),
			Degree:  uint32(f.Degree()),
		}, nil
	}
	return nil, fmt.Errorf("field %T: %w", f, ErrUnsupported)
}

// DecodeField rebuilds the field described by spec. A missing spec is GF(2).
func DecodeField(spec *pb.FieldSpec) (field.Field, error) {
	if spec == nil {
		return field.NewGF2(), nil
	}
	mod := new(big.Int).SetBytes(spec.Modulus)
	switch spec.Kind {
	case pb.FieldSpec_PRIME:
		if mod.BitLen() > MaxModulusBits {
			return nil, fmt.Errorf("modulus of %d bits: %w", mod.BitLen(), ErrMalformed)
		}
		if !mod.ProbablyPrime(20) {
			return nil, fmt.Errorf("modulus %s is not prime: %w", mod, ErrMalformed)
		}
		return field.NewPrimeField(mod), nil
	case pb.FieldSpec_BINARY:
		n := int(spec.Degree)
		if n < 1 || n > MaxBinaryDegree {
			return nil, fmt.Errorf("binary degree %d: %w", n, ErrMalformed)
		}
		if mod.BitLen() != n+1 || mod.Bit(0) == 0 {
			return nil, fmt.Errorf("polynomial %s does not have degree %d: %w", mod.Text(2), n, ErrMalformed)
		}
		if !field.IsIrreducible(mod) {
			return nil, fmt.Errorf("polynomial %s is reducible: %w", mod.Text(2), ErrMalformed)
		}
		if n == 1 {
			return field.NewGF2(), nil
		}
		return field.NewBinaryField(n, mod), nil
	}
	return nil, fmt.Errorf("field kind %d: %w", spec.Kind, ErrMalformed)
}

// EncodeElement returns the big-endian bytes of e.
func EncodeElement(e field.Element) []byte {
	if e == nil {
		return nil
	}
	return e.Bytes()
}

// DecodeElement maps data into f. Empty data is zero.
func DecodeElement(f field.Field, data []byte) field.Element {
	return f.FromBytes(data)
}

// EncodePermutation lists the transpositions of p.
func EncodePermutation(p matrix.Permutation) []*pb.Transposition {
	out := make([]*pb.Transposition, len(p))
	for i, t := range p {
		out[i] = &pb.Transposition{I: uint32(t.I), J: uint32(t.J)}
	}
	return out
}

// DecodePermutation rebuilds a permutation on rows rows.
func DecodePermutation(ts []*pb.Transposition, rows int) (matrix.Permutation, error) {
	p := make(matrix.Permutation, 0, len(ts))
	for _, t := range ts {
		if t == nil || int(t.I) >= rows || int(t.J) >= rows {
			return nil, fmt.Errorf("transposition %v on %d rows: %w", t, rows, ErrMalformed)
		}
		p = append(p, matrix.Transposition{I: int(t.I), J: int(t.J)})
	}
	return p, nil
}
