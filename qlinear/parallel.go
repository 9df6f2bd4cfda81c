// Copyright 2025 ao Authors

package qlinear

import (
	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/workerpool"
)

// ParallelQGemm runs the quantized matmul with the output grid distributed
// across the pool. Every output element is independent and every write is
// disjoint, so workers need no synchronization beyond the final barrier.
//
// When the batch is deep enough, contiguous row blocks go to each worker and
// run through the dispatch-selected kernel. For shallow batches (M smaller
// than the pool, the common single-row decode shape) the N dimension is
// split instead, using the portable range body.
//
// A nil pool runs the dispatch-selected kernel serially.
func ParallelQGemm[T floatx.Element](pool *workerpool.Pool, input []T, packed []byte, scales, zeros, output []T, M, K, N, groupSize int) {
	kern := kernelFor[T]()

	if pool == nil {
		kern(input, packed, scales, zeros, output, M, K, N, groupSize)
		return
	}

	if M >= pool.NumWorkers() {
		pool.ParallelFor(M, func(start, end int) {
			kern(input[start*K:end*K], packed, scales, zeros, output[start*N:end*N], end-start, K, N, groupSize)
		})
		return
	}

	// Shallow batch: split columns. Batch the grab so each worker amortizes
	// the atomic over a cache line's worth of output.
	pool.ParallelForAtomicBatched(N, 64, func(nStart, nEnd int) {
		qgemmRange(input, packed, scales, zeros, output, K, N, groupSize, 0, M, nStart, nEnd)
	})
}
