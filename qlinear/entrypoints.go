// Copyright 2025 ao Authors

package qlinear

import (
	"fmt"
	"sort"

	"github.com/gmagogsfm/ao/floatx"
)

// GroupSizes lists the group sizes with monomorphized entry points.
var GroupSizes = []int{32, 64, 128, 256}

// Func is the signature shared by all monomorphized entry points: the group
// size is baked in, everything else matches BaseQGemm.
type Func[T floatx.Element] func(input []T, packed []byte, scales, zeros, output []T, M, K, N int)

// Monomorphized entry points, one per (group size, storage type) pair. The
// host selects one before dispatch; each routes through the dispatch-selected
// body for its storage type.

func QLinear_32_Float32(input []float32, packed []byte, scales, zeros, output []float32, M, K, N int) {
	QGemmFloat32(input, packed, scales, zeros, output, M, K, N, 32)
}

func QLinear_64_Float32(input []float32, packed []byte, scales, zeros, output []float32, M, K, N int) {
	QGemmFloat32(input, packed, scales, zeros, output, M, K, N, 64)
}

func QLinear_128_Float32(input []float32, packed []byte, scales, zeros, output []float32, M, K, N int) {
	QGemmFloat32(input, packed, scales, zeros, output, M, K, N, 128)
}

func QLinear_256_Float32(input []float32, packed []byte, scales, zeros, output []float32, M, K, N int) {
	QGemmFloat32(input, packed, scales, zeros, output, M, K, N, 256)
}

func QLinear_32_Float16(input []floatx.Float16, packed []byte, scales, zeros, output []floatx.Float16, M, K, N int) {
	QGemmFloat16(input, packed, scales, zeros, output, M, K, N, 32)
}

func QLinear_64_Float16(input []floatx.Float16, packed []byte, scales, zeros, output []floatx.Float16, M, K, N int) {
	QGemmFloat16(input, packed, scales, zeros, output, M, K, N, 64)
}

func QLinear_128_Float16(input []floatx.Float16, packed []byte, scales, zeros, output []floatx.Float16, M, K, N int) {
	QGemmFloat16(input, packed, scales, zeros, output, M, K, N, 128)
}

func QLinear_256_Float16(input []floatx.Float16, packed []byte, scales, zeros, output []floatx.Float16, M, K, N int) {
	QGemmFloat16(input, packed, scales, zeros, output, M, K, N, 256)
}

func QLinear_32_BFloat16(input []floatx.BFloat16, packed []byte, scales, zeros, output []floatx.BFloat16, M, K, N int) {
	QGemmBFloat16(input, packed, scales, zeros, output, M, K, N, 32)
}

func QLinear_64_BFloat16(input []floatx.BFloat16, packed []byte, scales, zeros, output []floatx.BFloat16, M, K, N int) {
	QGemmBFloat16(input, packed, scales, zeros, output, M, K, N, 64)
}

func QLinear_128_BFloat16(input []floatx.BFloat16, packed []byte, scales, zeros, output []floatx.BFloat16, M, K, N int) {
	QGemmBFloat16(input, packed, scales, zeros, output, M, K, N, 128)
}

func QLinear_256_BFloat16(input []floatx.BFloat16, packed []byte, scales, zeros, output []floatx.BFloat16, M, K, N int) {
	QGemmBFloat16(input, packed, scales, zeros, output, M, K, N, 256)
}

// registry maps canonical entry-point names to their typed Func values.
var registry = map[string]any{
	"qlinear_32_float32":   Func[float32](QLinear_32_Float32),
	"qlinear_64_float32":   Func[float32](QLinear_64_Float32),
	"qlinear_128_float32":  Func[float32](QLinear_128_Float32),
	"qlinear_256_float32":  Func[float32](QLinear_256_Float32),
	"qlinear_32_float16":   Func[floatx.Float16](QLinear_32_Float16),
	"qlinear_64_float16":   Func[floatx.Float16](QLinear_64_Float16),
	"qlinear_128_float16":  Func[floatx.Float16](QLinear_128_Float16),
	"qlinear_256_float16":  Func[floatx.Float16](QLinear_256_Float16),
	"qlinear_32_bfloat16":  Func[floatx.BFloat16](QLinear_32_BFloat16),
	"qlinear_64_bfloat16":  Func[floatx.BFloat16](QLinear_64_BFloat16),
	"qlinear_128_bfloat16": Func[floatx.BFloat16](QLinear_128_BFloat16),
	"qlinear_256_bfloat16": Func[floatx.BFloat16](QLinear_256_BFloat16),
}

// Name returns the canonical entry-point name for a (group size, storage
// type) pair, e.g. "qlinear_64_float16".
func Name[T floatx.Element](groupSize int) string {
	return fmt.Sprintf("qlinear_%d_%s", groupSize, floatx.TypeName[T]())
}

// Lookup returns the entry point registered for storage type T and the given
// group size, or false if the combination has no compiled specialization.
func Lookup[T floatx.Element](groupSize int) (Func[T], bool) {
	fn, ok := registry[Name[T](groupSize)]
	if !ok {
		return nil, false
	}
	typed, ok := fn.(Func[T])
	return typed, ok
}

// Names returns all registered entry-point names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
