package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	proto "github.com/gogo/protobuf/proto"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
	"github.com/ethp2p/echelon/service"
	"github.com/ethp2p/echelon/wire"
)

// Summary is printed as JSON after every run
type Summary struct {
	Method         string        `json:"method"`
	Format         string        `json:"format"`
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	Rank           int           `json:"rank"`
	Determinant    string        `json:"determinant,omitempty"`
	Transpositions int           `json:"transpositions"`
	Server         string        `json:"server,omitempty"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

var (
	methodFlag    = flag.String("method", "standard", "dense, standard or reduce")
	reprFlag      = flag.String("repr", "dense", "dense, bits, sparse, sparsebits or hybrid")
	rowsFlag      = flag.Int("rows", 64, "rows of the random matrix")
	colsFlag      = flag.Int("cols", 64, "columns of the random matrix")
	densityFlag   = flag.Float64("density", 0.5, "probability of a nonzero entry in the random matrix")
	primeFlag     = flag.Uint64("prime", 0, "prime modulus; 0 selects GF(2)")
	seedFlag      = flag.Int64("seed", 1, "seed of the random matrix")
	reducedFlag   = flag.Bool("reduced", false, "reduce the standard form")
	transformFlag = flag.Bool("transform", false, "compute the elimination matrix")
	startFlag     = flag.Int("start", 0, "first row to eliminate")
	rankFlag      = flag.Int("rank", 0, "pivot rows of the input, for -method reduce")
	cutoffFlag    = flag.Int("cutoff", 0, "recursion cutoff for -method dense; 0 keeps the default")
	inFlag        = flag.String("in", "", "read the matrix (a pb.Matrix) from this file instead")
	outFlag       = flag.String("out", "", "write the response (a pb.EchelonResponse) to this file")
	serverFlag    = flag.String("server", "", "send the request to this echelond address instead of running locally")
	timeoutFlag   = flag.Duration("timeout", time.Minute, "timeout of a remote request")
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	flag.Parse()

	var f field.Field = field.NewGF2()
	if *primeFlag != 0 {
		f = field.NewPrimeFieldUint64(*primeFlag)
	}
	spec, err := wire.EncodeField(f)
	if err != nil {
		fail("%v", err)
	}

	method, ok := pb.EchelonRequest_Method_value[strings.ToUpper(*methodFlag)]
	if !ok {
		fail("unknown method %q", *methodFlag)
	}

	var msg *pb.Matrix
	if *inFlag != "" {
		data, err := os.ReadFile(*inFlag)
		if err != nil {
			fail("%v", err)
		}
		msg = &pb.Matrix{}
		if err := proto.Unmarshal(data, msg); err != nil {
			fail("decode %s: %v", *inFlag, err)
		}
	} else {
		m, err := randomMatrix(f, *reprFlag, *rowsFlag, *colsFlag, *densityFlag, *seedFlag)
		if err != nil {
			fail("%v", err)
		}
		if msg, err = wire.EncodeMatrix(m); err != nil {
			fail("%v", err)
		}
	}

	req := &pb.EchelonRequest{
		Method:    pb.EchelonRequest_Method(method),
		Field:     spec,
		Matrix:    msg,
		Reduced:   *reducedFlag,
		Transform: *transformFlag,
		StartRow:  uint32(*startFlag),
		Rank:      uint32(*rankFlag),
		Cutoff:    uint32(*cutoffFlag),
	}

	summary := Summary{
		Method: req.Method.String(),
		Format: msg.Format.String(),
		Rows:   int(msg.Rows),
		Cols:   int(msg.Cols),
		Server: *serverFlag,
	}

	start := time.Now()
	var resp *pb.EchelonResponse
	if *serverFlag != "" {
		ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
		defer cancel()
		c, err := service.Dial(ctx, *serverFlag)
		if err != nil {
			fail("connect to %s: %v", *serverFlag, err)
		}
		defer c.Close()
		resp, err = c.Eliminate(ctx, req)
		if err != nil {
			fail("%v", err)
		}
	} else {
		resp, err = (&service.Engine{}).Run(req)
		if err != nil {
			fail("%v", err)
		}
	}
	summary.Elapsed = time.Since(start)
	summary.Rank = int(resp.Rank)
	summary.Transpositions = len(resp.Permutation)
	if len(resp.Determinant) > 0 {
		summary.Determinant = wire.DecodeElement(f, resp.Determinant).String()
	}

	if *outFlag != "" {
		data, err := proto.Marshal(resp)
		if err != nil {
			fail("%v", err)
		}
		if err := os.WriteFile(*outFlag, data, 0o644); err != nil {
			fail("%v", err)
		}
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(string(out))
}

// randomMatrix draws a rows x cols matrix over f in the named format.
func randomMatrix(f field.Field, repr string, rows, cols int, density float64, seed int64) (matrix.Matrix, error) {
	rng := rand.New(rand.NewSource(seed))
	order := f.Order().Uint64()
	d := matrix.NewDense(f, rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float64() < density {
				d.Set(i, j, f.FromUint64(1+rng.Uint64()%(order-1)))
			}
		}
	}

	binary := func() error {
		if !field.IsGF2(f) {
			return fmt.Errorf("format %s needs GF(2); drop -prime", repr)
		}
		return nil
	}
	switch repr {
	case "dense":
		return d, nil
	case "sparse":
		return matrix.SparseFromDense(d), nil
	case "bits":
		return matrix.BitMatrixFromDense(d), binary()
	case "sparsebits":
		return matrix.SparseBitsFromBitMatrix(matrix.BitMatrixFromDense(d)), binary()
	case "hybrid":
		return matrix.HybridFromBitMatrix(matrix.BitMatrixFromDense(d)), binary()
	}
	return nil, fmt.Errorf("unknown format %q", repr)
}
