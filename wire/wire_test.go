package wire

import (
	"math/big"
	"math/rand"
	"testing"

	proto "github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
)

func randomDense(rng *rand.Rand, f field.Field, rows, cols int, density float64) *matrix.Dense {
	m := matrix.NewDense(f, rows, cols)
	order := f.Order().Uint64()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float64() < density {
				m.Set(i, j, f.FromUint64(1+rng.Uint64()%(order-1)))
			}
		}
	}
	return m
}

// roundTrip sends a matrix through proto bytes and back.
func roundTrip(t *testing.T, f field.Field, m matrix.Matrix) matrix.Matrix {
	t.Helper()
	msg, err := EncodeMatrix(m)
	require.NoError(t, err)
	data, err := proto.Marshal(msg)
	require.NoError(t, err)

	var back pb.Matrix
	require.NoError(t, proto.Unmarshal(data, &back))
	out, err := DecodeMatrix(f, &back)
	require.NoError(t, err)
	require.IsType(t, m, out)
	require.Equal(t, m.Rows(), out.Rows())
	require.Equal(t, m.Cols(), out.Cols())
	return out
}

func TestFieldRoundTrip(t *testing.T) {
	fields := []field.Field{
		field.NewGF2(),
		field.NewBinaryFieldGF2_8(),
		field.NewBinaryFieldGF2_32(),
		field.NewPrimeFieldUint64(101),
		field.NewPrimeField(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))),
	}
	for _, f := range fields {
		spec, err := EncodeField(f)
		require.NoError(t, err)
		data, err := proto.Marshal(spec)
		require.NoError(t, err)

		var back pb.FieldSpec
		require.NoError(t, proto.Unmarshal(data, &back))
		g, err := DecodeField(&back)
		require.NoError(t, err)
		require.Equal(t, 0, f.Order().Cmp(g.Order()), "field of order %s", f.Order())
		require.Equal(t, field.IsGF2(f), field.IsGF2(g))
	}
}

func TestDecodeFieldRejects(t *testing.T) {
	for _, spec := range []*pb.FieldSpec{
		{Kind: pb.FieldSpec_PRIME, Modulus: big.NewInt(91).Bytes()},
		{Kind: pb.FieldSpec_PRIME},
		{Kind: pb.FieldSpec_BINARY, Degree: 8, Modulus: big.NewInt(0x1B).Bytes()},
		{Kind: pb.FieldSpec_BINARY, Degree: 0, Modulus: big.NewInt(1).Bytes()},
		{Kind: pb.FieldSpec_BINARY, Degree: 200, Modulus: big.NewInt(3).Bytes()},
		{Kind: pb.FieldSpec_BINARY, Degree: 2, Modulus: big.NewInt(0b101).Bytes()},
		{Kind: pb.FieldSpec_BINARY, Degree: 8, Modulus: big.NewInt(0x11D ^ 0x4).Bytes()},
		{Kind: 7},
	} {
		_, err := DecodeField(spec)
		require.ErrorIs(t, err, ErrMalformed, "spec %v", spec)
	}

	f, err := DecodeField(nil)
	require.NoError(t, err)
	require.True(t, field.IsGF2(f))
}

func TestMatrixRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	gf101 := field.NewPrimeFieldUint64(101)
	gf256 := field.NewBinaryFieldGF2_8()
	gf2 := field.NewGF2()

	for _, f := range []field.Field{gf101, gf256} {
		d := randomDense(rng, f, 7, 13, 0.4)
		out := roundTrip(t, f, d)
		require.True(t, d.Equal(out.(*matrix.Dense)))

		s := matrix.SparseFromDense(d)
		out = roundTrip(t, f, s)
		require.True(t, d.Equal(out.(*matrix.SparseMatrix).Dense()))
	}

	// column counts on both sides of a word boundary
	for _, cols := range []int{1, 63, 64, 65, 150} {
		b := matrix.BitMatrixFromDense(randomDense(rng, gf2, 9, cols, 0.3))

		out := roundTrip(t, gf2, b)
		require.True(t, b.Equal(out.(*matrix.BitMatrix)))

		out = roundTrip(t, gf2, matrix.SparseBitsFromBitMatrix(b))
		require.True(t, b.Equal(out.(*matrix.SparseBitMatrix).BitMatrix()))

		out = roundTrip(t, gf2, matrix.HybridFromBitMatrix(b))
		require.True(t, b.Equal(out.(*matrix.HybridMatrix).BitMatrix()))
	}
}

func TestEncodeBitView(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	gf2 := field.NewGF2()
	b := matrix.BitMatrixFromDense(randomDense(rng, gf2, 6, 200, 0.5))
	v := b.View(1, 37, 4, 100)

	out := roundTrip(t, gf2, v)
	require.True(t, v.Equal(out.(*matrix.BitMatrix)))
}

func TestDecodeMatrixRejects(t *testing.T) {
	gf7 := field.NewPrimeFieldUint64(7)
	cases := map[string]*pb.Matrix{
		"row count": {Format: pb.Matrix_DENSE, Rows: 2, Cols: 1, Row: []*pb.Row{{Values: []byte{0}}}},
		"dense width": {Format: pb.Matrix_DENSE, Rows: 1, Cols: 4, Row: []*pb.Row{{Values: []byte{0}}}},
		"bit tail": {Format: pb.Matrix_BITS, Rows: 1, Cols: 3, Row: []*pb.Row{{Words: []uint64{0b1000}}}},
		"sparse order": {Format: pb.Matrix_SPARSE_BITS, Rows: 1, Cols: 5, Row: []*pb.Row{{Index: []uint32{3, 1}}}},
		"sparse range": {Format: pb.Matrix_SPARSE_BITS, Rows: 1, Cols: 5, Row: []*pb.Row{{Index: []uint32{5}}}},
		"sparse zero value": {Format: pb.Matrix_SPARSE, Rows: 1, Cols: 5, Row: []*pb.Row{
			{Index: []uint32{1}, Values: []byte{0}},
		}},
		"hybrid empty word": {Format: pb.Matrix_HYBRID, Rows: 1, Cols: 70, Row: []*pb.Row{
			{Index: []uint32{0}, Words: []uint64{0}},
		}},
		"hybrid words": {Format: pb.Matrix_HYBRID, Rows: 1, Cols: 70, Row: []*pb.Row{
			{Index: []uint32{0, 1}, Words: []uint64{1}},
		}},
		"format": {Format: 9},
	}
	for name, msg := range cases {
		_, err := DecodeMatrix(gf7, msg)
		require.ErrorIs(t, err, ErrMalformed, name)
	}

	_, err := DecodeMatrix(gf7, nil)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestPermutationRoundTrip(t *testing.T) {
	p := matrix.Permutation{{I: 0, J: 3}, {I: 1, J: 2}, {I: 2, J: 4}}
	back, err := DecodePermutation(EncodePermutation(p), 5)
	require.NoError(t, err)
	require.True(t, p.Equal(back))

	_, err = DecodePermutation(EncodePermutation(p), 4)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestElementRoundTrip(t *testing.T) {
	f := field.NewPrimeFieldUint64(101)
	e := f.FromUint64(77)
	require.True(t, e.Equal(DecodeElement(f, EncodeElement(e))))
	require.True(t, DecodeElement(f, nil).IsZero())
}
