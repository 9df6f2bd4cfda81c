// Copyright 2025 ao Authors

package qlinear

import "github.com/gmagogsfm/ao/floatx"

// BaseQGemm performs the fused unpack + dequantize + matrix multiplication:
//
//	output[m,n] = sum_k input[m,k] * (scale[k/groupSize,n]*W[k,n] + zero[k/groupSize,n])
//
// where W[k,n] is the 6-bit code recovered from the packed buffer. This is
// the portable body shared by every storage type; accumulation is always
// float32 regardless of T, and each output element is written exactly once.
//
// Parameters:
//   - input: [M, K] activation matrix (row-major)
//   - packed: [N, 3*K/4] packed 6-bit weights, one segment per output column
//   - scales: [G, N] per-group scales, G = ceil(K/groupSize)
//   - zeros: [G, N] per-group zero-points, same layout as scales
//   - output: [M, N] output matrix (row-major, pre-allocated)
//   - M, K, N: matrix dimensions; K must be a multiple of 4
//   - groupSize: positions per scale/zero group; must be a multiple of 4
//
// No shape validation is performed.
func BaseQGemm[T floatx.Element](input []T, packed []byte, scales, zeros []T, output []T, M, K, N, groupSize int) {
	qgemmRange(input, packed, scales, zeros, output, K, N, groupSize, 0, M, 0, N)
}

// qgemmRange computes the output elements (m, n) for m in [mStart, mEnd) and
// n in [nStart, nEnd). The range form is what the parallel driver splits.
func qgemmRange[T floatx.Element](input []T, packed []byte, scales, zeros []T, output []T, K, N, groupSize int, mStart, mEnd, nStart, nEnd int) {
	if K == 0 {
		return
	}

	rowBytes := PackedRowBytes(K)

	for m := mStart; m < mEnd; m++ {
		inputRow := input[m*K : (m+1)*K]
		outputRow := output[m*N : (m+1)*N]

		for n := nStart; n < nEnd; n++ {
			colPacked := packed[n*rowBytes : (n+1)*rowBytes]
			outputRow[n] = floatx.FromFloat32[T](dotColumn(inputRow, colPacked, scales, zeros, n, K, N, groupSize))
		}
	}
}

// dotColumn accumulates one output element: the dot product of one
// activation row with one dequantized weight column.
//
// Groups are walked in order; the scale and zero-point are fetched once per
// group and reused for every position inside it. Within a group the loop
// strides by the packing factor so each three-byte unit is unpacked exactly
// once. The final group may be short when K is not a multiple of groupSize.
func dotColumn[T floatx.Element](inputRow []T, colPacked []byte, scales, zeros []T, n, K, N, groupSize int) float32 {
	var acc float32

	for kb := 0; kb*groupSize < K; kb++ {
		scale := floatx.ToFloat32(scales[kb*N+n])
		zero := floatx.ToFloat32(zeros[kb*N+n])

		kEnd := min((kb+1)*groupSize, K)
		for k := kb * groupSize; k < kEnd; k += PackFactor {
			off := PackedUnitBytes * (k / PackFactor)
			w0, w1, w2, w3 := unpackUnit(colPacked[off], colPacked[off+1], colPacked[off+2])

			acc += floatx.ToFloat32(inputRow[k]) * (scale*float32(w0) + zero)
			acc += floatx.ToFloat32(inputRow[k+1]) * (scale*float32(w1) + zero)
			acc += floatx.ToFloat32(inputRow[k+2]) * (scale*float32(w2) + zero)
			acc += floatx.ToFloat32(inputRow[k+3]) * (scale*float32(w3) + zero)
		}
	}

	return acc
}
