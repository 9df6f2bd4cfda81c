// Copyright 2025 ao Authors

package qlinear

// qgemmFloat32Unrolled is the float32 specialization selected on SIMD-capable
// hosts. It processes two packing units (8 codes) per iteration with
// independent accumulators so the FMA chains overlap, and it skips the
// promote/demote calls the generic body pays per element.
//
// Same contract as BaseQGemm; results may differ from the portable body in
// the last bit because the accumulation order differs.
func qgemmFloat32Unrolled(input []float32, packed []byte, scales, zeros []float32, output []float32, M, K, N, groupSize int) {
	if K == 0 {
		return
	}

	rowBytes := PackedRowBytes(K)

	for m := 0; m < M; m++ {
		inputRow := input[m*K : (m+1)*K]
		outputRow := output[m*N : (m+1)*N]

		for n := 0; n < N; n++ {
			colPacked := packed[n*rowBytes : (n+1)*rowBytes]

			var acc0, acc1 float32
			for kb := 0; kb*groupSize < K; kb++ {
				scale := scales[kb*N+n]
				zero := zeros[kb*N+n]

				k := kb * groupSize
				kEnd := min(k+groupSize, K)

				for ; k+2*PackFactor <= kEnd; k += 2 * PackFactor {
					off := PackedUnitBytes * (k / PackFactor)
					w0, w1, w2, w3 := unpackUnit(colPacked[off], colPacked[off+1], colPacked[off+2])
					w4, w5, w6, w7 := unpackUnit(colPacked[off+3], colPacked[off+4], colPacked[off+5])

					acc0 += inputRow[k] * (scale*float32(w0) + zero)
					acc1 += inputRow[k+1] * (scale*float32(w1) + zero)
					acc0 += inputRow[k+2] * (scale*float32(w2) + zero)
					acc1 += inputRow[k+3] * (scale*float32(w3) + zero)
					acc0 += inputRow[k+4] * (scale*float32(w4) + zero)
					acc1 += inputRow[k+5] * (scale*float32(w5) + zero)
					acc0 += inputRow[k+6] * (scale*float32(w6) + zero)
					acc1 += inputRow[k+7] * (scale*float32(w7) + zero)
				}

				// Odd trailing unit of a short final group
				for ; k < kEnd; k += PackFactor {
					off := PackedUnitBytes * (k / PackFactor)
					w0, w1, w2, w3 := unpackUnit(colPacked[off], colPacked[off+1], colPacked[off+2])

					acc0 += inputRow[k] * (scale*float32(w0) + zero)
					acc1 += inputRow[k+1] * (scale*float32(w1) + zero)
					acc0 += inputRow[k+2] * (scale*float32(w2) + zero)
					acc1 += inputRow[k+3] * (scale*float32(w3) + zero)
				}
			}

			outputRow[n] = acc0 + acc1
		}
	}
}
