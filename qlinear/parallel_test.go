// Copyright 2025 ao Authors

package qlinear

import (
	"fmt"
	"math"
	"testing"

	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/workerpool"
)

// TestParallelMatchesSerial covers both split strategies: deep batches take
// the row split, shallow ones the column split.
func TestParallelMatchesSerial(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	shapes := []struct {
		name               string
		M, K, N, groupSize int
	}{
		{"row_split", 16, 128, 32, 64},
		{"column_split", 1, 128, 300, 32},
		{"column_split_small", 2, 64, 10, 32},
		{"short_group", 3, 40, 64, 32},
	}

	for _, s := range shapes {
		t.Run(s.name, func(t *testing.T) {
			rng := testRNG()
			G := Groups(s.K, s.groupSize)

			input := randElements[float32](rng, s.M*s.K)
			codes := randCodes(rng, s.K, s.N)
			packed := packColumns(codes, s.K, s.N)
			scales := randElements[float32](rng, G*s.N)
			zeros := randElements[float32](rng, G*s.N)

			serial := make([]float32, s.M*s.N)
			ParallelQGemm(nil, input, packed, scales, zeros, serial, s.M, s.K, s.N, s.groupSize)

			parallel := make([]float32, s.M*s.N)
			ParallelQGemm(pool, input, packed, scales, zeros, parallel, s.M, s.K, s.N, s.groupSize)

			for i := range serial {
				diff := math.Abs(float64(serial[i] - parallel[i]))
				if diff > 1e-4*math.Max(1, math.Abs(float64(serial[i]))) {
					t.Fatalf("output[%d]: serial %v, parallel %v", i, serial[i], parallel[i])
				}
			}
		})
	}
}

func TestParallelQGemm16Bit(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	const M, K, N, groupSize = 2, 64, 48, 32
	rng := testRNG()
	G := Groups(K, groupSize)

	input := randElements[floatx.Float16](rng, M*K)
	codes := randCodes(rng, K, N)
	packed := packColumns(codes, K, N)
	scales := randElements[floatx.Float16](rng, G*N)
	zeros := randElements[floatx.Float16](rng, G*N)

	output := make([]floatx.Float16, M*N)
	ParallelQGemm(pool, input, packed, scales, zeros, output, M, K, N, groupSize)

	checkAgainstRef(t, output, refQGemm(input, codes, scales, zeros, M, K, N, groupSize))
}

func BenchmarkParallelQGemm(b *testing.B) {
	pool := workerpool.New(0)
	defer pool.Close()

	for _, s := range []struct{ M, K, N int }{
		{1, 4096, 4096},
		{32, 2048, 2048},
	} {
		b.Run(fmt.Sprintf("M%d_K%d_N%d", s.M, s.K, s.N), func(b *testing.B) {
			rng := testRNG()
			const groupSize = 128
			G := Groups(s.K, groupSize)

			input := randElements[float32](rng, s.M*s.K)
			codes := randCodes(rng, s.K, s.N)
			packed := packColumns(codes, s.K, s.N)
			scales := randElements[float32](rng, G*s.N)
			zeros := randElements[float32](rng, G*s.N)
			output := make([]float32, s.M*s.N)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ParallelQGemm(pool, input, packed, scales, zeros, output, s.M, s.K, s.N, groupSize)
			}
			b.StopTimer()

			flops := 2 * float64(s.M) * float64(s.K) * float64(s.N)
			b.ReportMetric(flops*float64(b.N)/b.Elapsed().Seconds()/1e9, "GFLOPS")
		})
	}
}
