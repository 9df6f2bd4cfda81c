// Copyright 2025 ao Authors

package qlinear

import (
	"math"
	"testing"

	"github.com/gmagogsfm/ao/floatx"
)

func TestName(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Name[float32](32), "qlinear_32_float32"},
		{Name[floatx.Float16](64), "qlinear_64_float16"},
		{Name[floatx.BFloat16](256), "qlinear_256_bfloat16"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Name = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, gs := range GroupSizes {
		if _, ok := Lookup[float32](gs); !ok {
			t.Errorf("Lookup[float32](%d) missing", gs)
		}
		if _, ok := Lookup[floatx.Float16](gs); !ok {
			t.Errorf("Lookup[Float16](%d) missing", gs)
		}
		if _, ok := Lookup[floatx.BFloat16](gs); !ok {
			t.Errorf("Lookup[BFloat16](%d) missing", gs)
		}
	}

	if _, ok := Lookup[float32](48); ok {
		t.Error("Lookup[float32](48) should not exist")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(GroupSizes)*3 {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(GroupSizes)*3)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

// TestEntryPointsMatchBase runs every specialization against the portable
// generic body on the same problem.
func TestEntryPointsMatchBase(t *testing.T) {
	rng := testRNG()

	const M, K, N = 3, 512, 7
	input := randElements[float32](rng, M*K)
	codes := randCodes(rng, K, N)
	packed := packColumns(codes, K, N)

	for _, gs := range GroupSizes {
		G := Groups(K, gs)
		scales := randElements[float32](rng, G*N)
		zeros := randElements[float32](rng, G*N)

		want := make([]float32, M*N)
		BaseQGemm(input, packed, scales, zeros, want, M, K, N, gs)

		fn, ok := Lookup[float32](gs)
		if !ok {
			t.Fatalf("Lookup[float32](%d) missing", gs)
		}
		got := make([]float32, M*N)
		fn(input, packed, scales, zeros, got, M, K, N)

		for i := range want {
			diff := math.Abs(float64(got[i] - want[i]))
			if diff > 1e-4*math.Max(1, math.Abs(float64(want[i]))) {
				t.Fatalf("group size %d, output[%d]: entry point %v, base %v", gs, i, got[i], want[i])
			}
		}
	}
}

func TestSIMDLevelString(t *testing.T) {
	if s := SIMDLevel().String(); s == "" {
		t.Errorf("SIMDLevel().String() = %q", s)
	}
}
