package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/gauss"
	"github.com/ethp2p/echelon/matrix"
)

// BenchmarkResult stores the average time of one elimination path
type BenchmarkResult struct {
	Path       string        `json:"path"`   // "dense" (recursive) or "standard"
	Format     string        `json:"format"` // storage format of the input
	Field      string        `json:"field"`
	Rows       int           `json:"rows"`
	Cols       int           `json:"cols"`
	Density    float64       `json:"density"`
	Iterations int           `json:"iterations"`
	Rank       int           `json:"rank"`
	Average    time.Duration `json:"average_ns"`
}

func main() {
	rows := flag.Int("rows", 256, "Number of rows")
	cols := flag.Int("cols", 256, "Number of columns")
	density := flag.Float64("density", 0.1, "Probability of a nonzero entry")
	prime := flag.Uint64("prime", 65537, "Prime modulus of the general field")
	iterations := flag.Int("iterations", 10, "Number of iterations per benchmark")
	seed := flag.Int64("seed", 1, "Random seed")
	outputFile := flag.String("output", "echelon_benchmark.json", "Output file for benchmark results")
	flag.Parse()

	if *iterations < 1 {
		fmt.Fprintf(os.Stderr, "Error: iterations must be positive\n")
		os.Exit(1)
	}

	fmt.Printf("Benchmarking eliminations with:\n")
	fmt.Printf("  Shape: %dx%d\n", *rows, *cols)
	fmt.Printf("  Density: %g\n", *density)
	fmt.Printf("  Prime: %d\n", *prime)
	fmt.Printf("  Iterations: %d\n", *iterations)
	fmt.Println()

	rng := rand.New(rand.NewSource(*seed))
	gfp := field.NewPrimeFieldUint64(*prime)
	gf2 := field.NewGF2()
	G := random(rng, gfp, *rows, *cols, *density)
	B := matrix.BitMatrixFromDense(random(rng, gf2, *rows, *cols, *density))

	var results []BenchmarkResult
	run := func(path, format string, f field.Field, elim func(e *gauss.Eliminator) (int, error)) {
		fmt.Printf("Benchmarking %s on %s... ", path, format)
		e, err := gauss.NewEliminator(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create eliminator: %v\n", err)
			os.Exit(1)
		}
		result := BenchmarkResult{
			Path:       path,
			Format:     format,
			Field:      f.Order().String(),
			Rows:       *rows,
			Cols:       *cols,
			Density:    *density,
			Iterations: *iterations,
		}
		var total time.Duration
		for i := 0; i < *iterations; i++ {
			start := time.Now()
			rank, err := elim(e)
			total += time.Since(start)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s on %s failed: %v\n", path, format, err)
				os.Exit(1)
			}
			result.Rank = rank
		}
		result.Average = total / time.Duration(*iterations)
		fmt.Printf("%v (rank %d)\n", result.Average, result.Rank)
		results = append(results, result)
	}

	run("dense", "dense", gfp, func(e *gauss.Eliminator) (int, error) {
		A := G.Clone()
		var P matrix.Permutation
		rank, _, err := e.DenseRowEchelonForm(A, matrix.NewDense(gfp, *rows, *rows), &P, A)
		return rank, err
	})
	run("standard", "dense", gfp, func(e *gauss.Eliminator) (int, error) {
		var P matrix.Permutation
		rank, _, err := e.StandardRowEchelonForm(G.Clone(), nil, &P, true, 0)
		return rank, err
	})
	S := matrix.SparseFromDense(G)
	run("standard", "sparse", gfp, func(e *gauss.Eliminator) (int, error) {
		var P matrix.Permutation
		rank, _, err := e.StandardRowEchelonForm(S.Clone(), nil, &P, true, 0)
		return rank, err
	})
	run("dense", "bits", gf2, func(e *gauss.Eliminator) (int, error) {
		A := B.Clone()
		var P matrix.Permutation
		rank, _, err := e.DenseRowEchelonForm(A, matrix.NewBitMatrix(*rows, *rows), &P, A)
		return rank, err
	})
	run("standard", "bits", gf2, func(e *gauss.Eliminator) (int, error) {
		var P matrix.Permutation
		rank, _, err := e.StandardRowEchelonForm(B.Clone(), nil, &P, true, 0)
		return rank, err
	})
	SB := matrix.SparseBitsFromBitMatrix(B)
	run("standard", "sparsebits", gf2, func(e *gauss.Eliminator) (int, error) {
		var P matrix.Permutation
		rank, _, err := e.StandardRowEchelonForm(SB.Clone(), nil, &P, true, 0)
		return rank, err
	})
	H := matrix.HybridFromBitMatrix(B)
	run("standard", "hybrid", gf2, func(e *gauss.Eliminator) (int, error) {
		var P matrix.Permutation
		rank, _, err := e.StandardRowEchelonForm(H.Clone(), nil, &P, true, 0)
		return rank, err
	})

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal results: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputFile, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nResults written to %s\n", *outputFile)
}

func random(rng *rand.Rand, f field.Field, rows, cols int, density float64) *matrix.Dense {
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
