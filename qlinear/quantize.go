// Copyright 2025 ao Authors

package qlinear

import (
	"fmt"
	"math"

	"github.com/gmagogsfm/ao/floatx"
)

// Groups returns the number of quantization groups along the reduction
// dimension: ceil(K / groupSize).
func Groups(K, groupSize int) int {
	return (K + groupSize - 1) / groupSize
}

// Quantize performs per-group affine quantization of a [K, N] row-major
// weight matrix into the kernel's packed layout.
//
// For each group of a column, the zero-point is the group minimum and the
// scale is (max-min)/63, so that dequantization is exactly
// scale*code + zero. Scale and zero are rounded to the storage type first
// and the codes are computed against the rounded values, matching what the
// kernel will read back.
//
// Returns the packed codes ([N, 3*K/4] bytes), the scale table and the
// zero-point table (both [G, N]).
func Quantize[T floatx.Element](weights []T, K, N, groupSize int) (packed []byte, scales, zeros []T, err error) {
	if K%PackFactor != 0 {
		return nil, nil, nil, fmt.Errorf("qlinear: K=%d is not a multiple of %d", K, PackFactor)
	}
	if groupSize%PackFactor != 0 || groupSize <= 0 {
		return nil, nil, nil, fmt.Errorf("qlinear: group size %d is not a positive multiple of %d", groupSize, PackFactor)
	}
	if len(weights) != K*N {
		return nil, nil, nil, fmt.Errorf("qlinear: weight buffer has %d elements, want %d", len(weights), K*N)
	}

	G := Groups(K, groupSize)
	rowBytes := PackedRowBytes(K)
	packed = make([]byte, N*rowBytes)
	scales = make([]T, G*N)
	zeros = make([]T, G*N)

	for n := 0; n < N; n++ {
		seg := packed[n*rowBytes : (n+1)*rowBytes]

		for kb := 0; kb < G; kb++ {
			kStart := kb * groupSize
			kEnd := min(kStart+groupSize, K)

			lo := float32(math.Inf(1))
			hi := float32(math.Inf(-1))
			for k := kStart; k < kEnd; k++ {
				w := floatx.ToFloat32(weights[k*N+n])
				lo = min(lo, w)
				hi = max(hi, w)
			}

			sT := floatx.FromFloat32[T]((hi - lo) / MaxCode)
			zT := floatx.FromFloat32[T](lo)
			scale := floatx.ToFloat32(sT)
			zero := floatx.ToFloat32(zT)
			if scale == 0 {
				// Constant group (or a range that flushed to zero in the
				// storage type): every code is 0 and the zero-point carries
				// the value.
				sT = floatx.FromFloat32[T](1)
				scale = 1
			}
			scales[kb*N+n] = sT
			zeros[kb*N+n] = zT

			for k := kStart; k < kEnd; k += PackFactor {
				c0 := quantizeCode(floatx.ToFloat32(weights[k*N+n]), scale, zero)
				c1 := quantizeCode(floatx.ToFloat32(weights[(k+1)*N+n]), scale, zero)
				c2 := quantizeCode(floatx.ToFloat32(weights[(k+2)*N+n]), scale, zero)
				c3 := quantizeCode(floatx.ToFloat32(weights[(k+3)*N+n]), scale, zero)

				b0, b1, b2 := packUnit(c0, c1, c2, c3)
				off := PackedUnitBytes * (k / PackFactor)
				seg[off], seg[off+1], seg[off+2] = b0, b1, b2
			}
		}
	}

	return packed, scales, zeros, nil
}

// quantizeCode maps a weight to its nearest 6-bit code under the group's
// affine parameters, clamped to [0, 63].
func quantizeCode(w, scale, zero float32) byte {
	c := math.Round(float64((w - zero) / scale))
	if c < 0 {
		c = 0
	} else if c > MaxCode {
		c = MaxCode
	}
	return byte(c)
}

// Dequantize materializes the full [K, N] row-major weight matrix from its
// packed form. This is the reference path; inference should use the fused
// kernels, which never materialize the dequantized matrix.
func Dequantize[T floatx.Element](packed []byte, scales, zeros []T, K, N, groupSize int) []T {
	rowBytes := PackedRowBytes(K)
	out := make([]T, K*N)
	codes := make([]uint8, K)

	for n := 0; n < N; n++ {
		Unpack6(packed[n*rowBytes:(n+1)*rowBytes], codes)
		for k := 0; k < K; k++ {
			kb := k / groupSize
			scale := floatx.ToFloat32(scales[kb*N+n])
			zero := floatx.ToFloat32(zeros[kb*N+n])
			out[k*N+n] = floatx.FromFloat32[T](scale*float32(codes[k]) + zero)
		}
	}

	return out
}
