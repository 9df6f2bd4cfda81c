// Copyright 2025 ao Authors

package qlinear

import (
	"math"
	"testing"

	"github.com/gmagogsfm/ao/floatx"
)

func TestGroups(t *testing.T) {
	tests := []struct {
		K, groupSize, want int
	}{
		{128, 32, 4},
		{128, 128, 1},
		{128, 256, 1},
		{40, 32, 2},
		{100, 64, 2},
		{4096, 128, 32},
	}
	for _, tt := range tests {
		if got := Groups(tt.K, tt.groupSize); got != tt.want {
			t.Errorf("Groups(%d, %d) = %d, want %d", tt.K, tt.groupSize, got, tt.want)
		}
	}
}

func TestQuantizeErrors(t *testing.T) {
	weights := make([]float32, 32)

	if _, _, _, err := Quantize(weights[:30], 30, 1, 32); err == nil {
		t.Error("expected error for K not a multiple of 4")
	}
	if _, _, _, err := Quantize(weights, 32, 1, 30); err == nil {
		t.Error("expected error for group size not a multiple of 4")
	}
	if _, _, _, err := Quantize(weights, 32, 1, 0); err == nil {
		t.Error("expected error for zero group size")
	}
	if _, _, _, err := Quantize(weights, 32, 2, 32); err == nil {
		t.Error("expected error for short weight buffer")
	}
}

// TestQuantizeRoundTrip verifies every dequantized weight lands within half
// a quantization step of the original, plus storage-type rounding slack for
// the 16-bit types.
func TestQuantizeRoundTrip(t *testing.T) {
	const K, N, groupSize = 128, 8, 32

	t.Run("float32", func(t *testing.T) { runRoundTrip[float32](t, K, N, groupSize, 1e-6) })
	t.Run("float16", func(t *testing.T) { runRoundTrip[floatx.Float16](t, K, N, groupSize, 5e-3) })
	t.Run("bfloat16", func(t *testing.T) { runRoundTrip[floatx.BFloat16](t, K, N, groupSize, 4e-2) })
}

func runRoundTrip[T floatx.Element](t *testing.T, K, N, groupSize int, slack float64) {
	t.Helper()
	rng := testRNG()

	weights := make([]T, K*N)
	for i := range weights {
		weights[i] = floatx.FromFloat32[T](float32(rng.NormFloat64()))
	}

	packed, scales, zeros, err := Quantize(weights, K, N, groupSize)
	if err != nil {
		t.Fatal(err)
	}
	deq := Dequantize(packed, scales, zeros, K, N, groupSize)

	for k := 0; k < K; k++ {
		for n := 0; n < N; n++ {
			kb := k / groupSize
			scale := float64(floatx.ToFloat32(scales[kb*N+n]))
			w := float64(floatx.ToFloat32(weights[k*N+n]))
			d := float64(floatx.ToFloat32(deq[k*N+n]))

			limit := 0.501*scale + slack*(math.Abs(w)+1)
			if math.Abs(d-w) > limit {
				t.Fatalf("weight[%d,%d]: original %v, dequantized %v, scale %v", k, n, w, d, scale)
			}
		}
	}
}

// TestQuantizeConstantGroup: a constant column quantizes to code 0 with the
// zero-point carrying the value exactly.
func TestQuantizeConstantGroup(t *testing.T) {
	const K, N, groupSize = 32, 2, 32

	weights := make([]float32, K*N)
	for k := 0; k < K; k++ {
		weights[k*N+0] = 0.75
		weights[k*N+1] = -2.5
	}

	packed, scales, zeros, err := Quantize(weights, K, N, groupSize)
	if err != nil {
		t.Fatal(err)
	}

	if zeros[0] != 0.75 || zeros[1] != -2.5 {
		t.Errorf("zeros = %v", zeros)
	}
	if scales[0] != 1 || scales[1] != 1 {
		t.Errorf("scales = %v, want 1 for constant groups", scales)
	}

	deq := Dequantize(packed, scales, zeros, K, N, groupSize)
	for i, w := range weights {
		if deq[i] != w {
			t.Fatalf("deq[%d] = %v, want %v", i, deq[i], w)
		}
	}
}

// TestQuantizeExtremesHitCodeRange: the group minimum must encode to 0 and
// the maximum to 63.
func TestQuantizeExtremesHitCodeRange(t *testing.T) {
	const K, N, groupSize = 32, 1, 32

	weights := make([]float32, K)
	for k := range weights {
		weights[k] = float32(k)
	}
	weights[0] = -10
	weights[K-1] = 10

	packed, _, _, err := Quantize(weights, K, N, groupSize)
	if err != nil {
		t.Fatal(err)
	}

	codes := make([]uint8, K)
	Unpack6(packed, codes)

	if codes[0] != 0 {
		t.Errorf("code for minimum = %d, want 0", codes[0])
	}
	if codes[K-1] != MaxCode {
		t.Errorf("code for maximum = %d, want %d", codes[K-1], MaxCode)
	}
}

// TestQuantizeEndToEnd checks that the fused kernel over quantized weights
// agrees with a float64 matmul over the materialized dequantized matrix.
func TestQuantizeEndToEnd(t *testing.T) {
	rng := testRNG()
	const M, K, N, groupSize = 4, 256, 12, 64

	weights := make([]float32, K*N)
	for i := range weights {
		weights[i] = float32(rng.NormFloat64())
	}
	input := randElements[float32](rng, M*K)

	packed, scales, zeros, err := Quantize(weights, K, N, groupSize)
	if err != nil {
		t.Fatal(err)
	}

	deq := Dequantize(packed, scales, zeros, K, N, groupSize)
	want := make([]float64, M*N)
	for m := 0; m < M; m++ {
		for n := 0; n < N; n++ {
			var sum float64
			for k := 0; k < K; k++ {
				sum += float64(input[m*K+k]) * float64(deq[k*N+n])
			}
			want[m*N+n] = sum
		}
	}

	got := make([]float32, M*N)
	BaseQGemm(input, packed, scales, zeros, got, M, K, N, groupSize)

	checkAgainstRef(t, got, want)
}
