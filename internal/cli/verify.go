// Copyright 2025 ao Authors

package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/qlinear"
)

var (
	verifyM    int
	verifyK    int
	verifyN    int
	verifySeed int64
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every kernel specialization against a float64 reference",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().IntVar(&verifyM, "m", 4, "Batch size (rows of the activation matrix)")
	verifyCmd.Flags().IntVar(&verifyK, "k", 512, "Reduction dimension (must be a multiple of 4)")
	verifyCmd.Flags().IntVar(&verifyN, "n", 33, "Output features")
	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 1, "Random seed for weights and activations")
}

// verifyResult is one specialization's comparison against the reference.
type verifyResult struct {
	EntryPoint string  `json:"entry_point"`
	MaxRelErr  float64 `json:"max_rel_err"`
	Tolerance  float64 `json:"tolerance"`
	Pass       bool    `json:"pass"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifyK%qlinear.PackFactor != 0 || verifyM <= 0 || verifyN <= 0 {
		return fmt.Errorf("invalid shape M=%d K=%d N=%d (K must be a positive multiple of %d)", verifyM, verifyK, verifyN, qlinear.PackFactor)
	}

	var results []verifyResult
	for _, gs := range qlinear.GroupSizes {
		results = append(results, verifyKernel[float32](gs, 1e-4))
		results = append(results, verifyKernel[floatx.Float16](gs, 2e-3))
		results = append(results, verifyKernel[floatx.BFloat16](gs, 1.5e-2))
	}

	failed := 0
	for _, r := range results {
		if !r.Pass {
			failed++
		}
	}

	if globalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]interface{}{
			"shape":   map[string]int{"m": verifyM, "k": verifyK, "n": verifyN},
			"results": results,
			"failed":  failed,
		}); err != nil {
			return err
		}
	} else {
		fmt.Printf("\n=== Kernel Verification (M=%d K=%d N=%d, seed %d) ===\n\n", verifyM, verifyK, verifyN, verifySeed)
		tbl := tablewriter.NewWriter(os.Stdout)
		tbl.Header("Entry Point", "Max Rel Err", "Tolerance", "Status")
		for _, r := range results {
			status := "ok"
			if !r.Pass {
				status = "FAIL"
			}
			tbl.Append([]string{
				r.EntryPoint,
				fmt.Sprintf("%.3e", r.MaxRelErr),
				fmt.Sprintf("%.1e", r.Tolerance),
				status,
			})
		}
		_ = tbl.Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d specializations failed", failed, len(results))
	}
	return nil
}

// verifyKernel quantizes a random weight matrix, runs the registered entry
// point over it and compares against a float64 matmul of the dequantized
// weights.
func verifyKernel[T floatx.Element](groupSize int, tol float64) verifyResult {
	rng := rand.New(rand.NewSource(verifySeed))
	M, K, N := verifyM, verifyK, verifyN

	weights := make([]T, K*N)
	for i := range weights {
		weights[i] = floatx.FromFloat32[T](float32(rng.NormFloat64()))
	}
	input := make([]T, M*K)
	for i := range input {
		input[i] = floatx.FromFloat32[T](float32(rng.Intn(129)-64) / 64)
	}

	res := verifyResult{
		EntryPoint: qlinear.Name[T](groupSize),
		Tolerance:  tol,
	}

	packed, scales, zeros, err := qlinear.Quantize(weights, K, N, groupSize)
	if err != nil {
		res.MaxRelErr = math.Inf(1)
		return res
	}

	fn, ok := qlinear.Lookup[T](groupSize)
	if !ok {
		res.MaxRelErr = math.Inf(1)
		return res
	}
	output := make([]T, M*N)
	fn(input, packed, scales, zeros, output, M, K, N)

	deq := qlinear.Dequantize(packed, scales, zeros, K, N, groupSize)
	maxRel := 0.0
	for m := 0; m < M; m++ {
		for n := 0; n < N; n++ {
			var want float64
			for k := 0; k < K; k++ {
				want += float64(floatx.ToFloat32(input[m*K+k])) * float64(floatx.ToFloat32(deq[k*N+n]))
			}
			got := float64(floatx.ToFloat32(output[m*N+n]))
			rel := math.Abs(got-want) / math.Max(1, math.Abs(want))
			maxRel = math.Max(maxRel, rel)
		}
	}

	res.MaxRelErr = maxRel
	res.Pass = maxRel <= tol
	return res
}
