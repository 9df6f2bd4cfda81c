// Copyright 2025 ao Authors

package cli

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/qlinear"
	"github.com/gmagogsfm/ao/workerpool"
)

var (
	benchM        int
	benchK        int
	benchN        int
	benchGroup    int
	benchSeconds  float64
	benchParallel bool
	benchWorkers  int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure kernel throughput on the current host",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchM, "m", 8, "Batch size (rows of the activation matrix)")
	benchCmd.Flags().IntVar(&benchK, "k", 4096, "Reduction dimension (must be a multiple of 4)")
	benchCmd.Flags().IntVar(&benchN, "n", 4096, "Output features")
	benchCmd.Flags().IntVar(&benchGroup, "group-size", 128, "Quantization group size")
	benchCmd.Flags().Float64Var(&benchSeconds, "seconds", 1, "Minimum wall time per measurement")
	benchCmd.Flags().BoolVar(&benchParallel, "parallel", false, "Also measure with the worker pool")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "Worker count for --parallel (0 = GOMAXPROCS)")
}

// benchResult is one measured configuration.
type benchResult struct {
	EntryPoint  string  `json:"entry_point"`
	Workers     int     `json:"workers"`
	Iters       int     `json:"iters"`
	GFLOPS      float64 `json:"gflops"`
	MillisPerOp float64 `json:"ms_per_op"`
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchK%qlinear.PackFactor != 0 || benchM <= 0 || benchN <= 0 {
		return fmt.Errorf("invalid shape M=%d K=%d N=%d (K must be a positive multiple of %d)", benchM, benchK, benchN, qlinear.PackFactor)
	}
	valid := false
	for _, gs := range qlinear.GroupSizes {
		if gs == benchGroup {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unsupported group size %d (supported: %v)", benchGroup, qlinear.GroupSizes)
	}

	var results []benchResult
	results = append(results, benchKernel[float32]())
	results = append(results, benchKernel[floatx.Float16]())
	results = append(results, benchKernel[floatx.BFloat16]())
	if benchParallel {
		results = append(results, benchParallelKernel())
	}

	if globalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"shape":   map[string]int{"m": benchM, "k": benchK, "n": benchN, "group_size": benchGroup},
			"simd":    qlinear.SIMDLevel().String(),
			"results": results,
		})
	}

	fmt.Printf("\n=== Kernel Throughput (M=%d K=%d N=%d, group size %d, simd %s) ===\n\n",
		benchM, benchK, benchN, benchGroup, qlinear.SIMDLevel())
	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.Header("Entry Point", "Workers", "Iters", "ms/op", "GFLOPS")
	for _, r := range results {
		tbl.Append([]string{
			r.EntryPoint,
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Iters),
			fmt.Sprintf("%.2f", r.MillisPerOp),
			fmt.Sprintf("%.2f", r.GFLOPS),
		})
	}
	_ = tbl.Render()
	return nil
}

// benchBuffers generates one problem instance for the configured shape.
func benchBuffers[T floatx.Element]() (input []T, packed []byte, scales, zeros, output []T) {
	rng := rand.New(rand.NewSource(1))
	M, K, N := benchM, benchK, benchN
	G := qlinear.Groups(K, benchGroup)

	input = make([]T, M*K)
	for i := range input {
		input[i] = floatx.FromFloat32[T](float32(rng.NormFloat64()))
	}

	codes := make([]uint8, K)
	packed = make([]byte, N*qlinear.PackedRowBytes(K))
	rowBytes := qlinear.PackedRowBytes(K)
	for n := 0; n < N; n++ {
		for k := range codes {
			codes[k] = uint8(rng.Intn(qlinear.MaxCode + 1))
		}
		qlinear.Pack6(codes, packed[n*rowBytes:(n+1)*rowBytes])
	}

	scales = make([]T, G*N)
	zeros = make([]T, G*N)
	for i := range scales {
		scales[i] = floatx.FromFloat32[T](float32(rng.Float64()) * 0.1)
		zeros[i] = floatx.FromFloat32[T](float32(rng.NormFloat64()))
	}
	output = make([]T, M*N)
	return
}

func benchKernel[T floatx.Element]() benchResult {
	input, packed, scales, zeros, output := benchBuffers[T]()
	fn, _ := qlinear.Lookup[T](benchGroup)

	iters, elapsed := measure(func() {
		fn(input, packed, scales, zeros, output, benchM, benchK, benchN)
	})

	return benchResult{
		EntryPoint:  qlinear.Name[T](benchGroup),
		Workers:     1,
		Iters:       iters,
		GFLOPS:      gflops(iters, elapsed),
		MillisPerOp: elapsed.Seconds() * 1000 / float64(iters),
	}
}

func benchParallelKernel() benchResult {
	pool := workerpool.New(benchWorkers)
	defer pool.Close()

	input, packed, scales, zeros, output := benchBuffers[float32]()

	iters, elapsed := measure(func() {
		qlinear.ParallelQGemm(pool, input, packed, scales, zeros, output, benchM, benchK, benchN, benchGroup)
	})

	return benchResult{
		EntryPoint:  qlinear.Name[float32](benchGroup) + "+pool",
		Workers:     pool.NumWorkers(),
		Iters:       iters,
		GFLOPS:      gflops(iters, elapsed),
		MillisPerOp: elapsed.Seconds() * 1000 / float64(iters),
	}
}

// measure runs fn repeatedly until the configured minimum wall time has
// passed, with one untimed warmup call.
func measure(fn func()) (iters int, elapsed time.Duration) {
	fn()

	minTime := time.Duration(benchSeconds * float64(time.Second))
	start := time.Now()
	for elapsed < minTime {
		fn()
		iters++
		elapsed = time.Since(start)
	}
	return iters, elapsed
}

func gflops(iters int, elapsed time.Duration) float64 {
	flops := 2 * float64(benchM) * float64(benchK) * float64(benchN)
	return flops * float64(iters) / elapsed.Seconds() / 1e9
}
