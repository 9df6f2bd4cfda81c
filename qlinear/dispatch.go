// Copyright 2025 ao Authors

package qlinear

import "github.com/gmagogsfm/ao/floatx"

// Level identifies the SIMD capability detected at startup.
type Level int

const (
	// LevelScalar indicates no usable SIMD; the portable body is used.
	LevelScalar Level = iota

	// LevelAVX2 indicates 256-bit x86 SIMD.
	LevelAVX2

	// LevelAVX512 indicates 512-bit x86 SIMD.
	LevelAVX512

	// LevelNEON indicates 128-bit ARM SIMD (baseline on arm64).
	LevelNEON
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	default:
		return "scalar"
	}
}

// currentLevel is set by init() in dispatch_*.go files.
var currentLevel Level

// SIMDLevel returns the capability detected for this host. The kernels are
// portable Go either way; the level only controls which body variant the
// float32 dispatch variable is bound to.
func SIMDLevel() Level {
	return currentLevel
}

// Dispatch variables, bound at init time. Architecture-specific init()
// functions override the float32 variable with the unrolled body when the
// host has SIMD wide enough to profit from the deeper pipeline. The 16-bit
// types always use the portable promote-compute-demote body.
var (
	// QGemmFloat32 is the selected float32 kernel implementation.
	QGemmFloat32 func(input []float32, packed []byte, scales, zeros, output []float32, M, K, N, groupSize int)

	// QGemmFloat16 is the selected Float16 kernel implementation.
	QGemmFloat16 func(input []floatx.Float16, packed []byte, scales, zeros, output []floatx.Float16, M, K, N, groupSize int)

	// QGemmBFloat16 is the selected BFloat16 kernel implementation.
	QGemmBFloat16 func(input []floatx.BFloat16, packed []byte, scales, zeros, output []floatx.BFloat16, M, K, N, groupSize int)
)

func init() {
	QGemmFloat32 = BaseQGemm[float32]
	QGemmFloat16 = BaseQGemm[floatx.Float16]
	QGemmBFloat16 = BaseQGemm[floatx.BFloat16]
}

// kernelFunc is the full-matrix kernel signature for one storage type.
type kernelFunc[T floatx.Element] func(input []T, packed []byte, scales, zeros, output []T, M, K, N, groupSize int)

// kernelFor returns the dispatch-selected implementation for T.
func kernelFor[T floatx.Element]() kernelFunc[T] {
	var z T
	switch any(z).(type) {
	case floatx.Float16:
		return any(kernelFunc[floatx.Float16](QGemmFloat16)).(kernelFunc[T])
	case floatx.BFloat16:
		return any(kernelFunc[floatx.BFloat16](QGemmBFloat16)).(kernelFunc[T])
	default:
		return any(kernelFunc[float32](QGemmFloat32)).(kernelFunc[T])
	}
}
