// Copyright 2025 ao Authors

// Package qlinear implements weight-only quantized linear algebra with 6-bit
// grouped affine weights.
//
// Weights are stored as unsigned 6-bit codes packed four-per-three-bytes,
// with one scale and one zero-point per quantization group of the reduction
// dimension. Activations, accumulation, and outputs stay in floating point;
// only the weight matrix is compressed (to ~25% of its float32 size), which
// trades a per-element unpack+dequantize cost for memory-bandwidth savings in
// memory-bound inference.
//
// # Packed 6-bit format
//
// Four codes w0..w3 in [0, 63] occupy three bytes b0..b2 with no padding:
//
//	w0 = ((b0 & 0x03) << 4) | (b1 & 0x0F)
//	w1 = ((b0 & 0x0C) << 2) | ((b1 & 0xF0) >> 4)
//	w2 =  (b0 & 0x30)       |  (b2 & 0x0F)
//	w3 = ((b0 & 0xC0) >> 2) | ((b2 & 0xF0) >> 4)
//
// The weight buffer holds one packed segment of K codes per output column,
// so the reduction dimension K must be a multiple of 4.
//
// # Grouped affine dequantization
//
// A code w in group kb of column n dequantizes as
//
//	value = scale[kb, n]*float(w) + zero[kb, n]
//
// Note the zero-point is added after scaling. This differs from the
// (w - zero)*scale convention some schemes use; the packed format is defined
// by this exact form and changing it silently changes every output.
//
// # Entry points
//
// Each supported (group size, storage type) pair has a distinct monomorphic
// entry point named qlinear_<groupSize>_<typeName>, e.g. qlinear_64_float16.
// Hosts select one before dispatch via Lookup or call the named Go function
// directly; no runtime dispatch across group sizes or types happens inside
// the kernel. Supported group sizes are 32, 64, 128 and 256; storage types
// are float32, floatx.Float16 and floatx.BFloat16.
//
// # Parallelism
//
// One output element depends only on one activation row and one weight
// column, so the output grid is an embarrassingly parallel map. ParallelQGemm
// distributes it over a workerpool.Pool without any synchronization beyond
// the final barrier; all writes are disjoint.
//
// The kernels perform no shape validation. Mismatched buffers are undefined
// behavior (out-of-bounds reads); callers validate before dispatch, or use
// the Linear wrapper which does.
package qlinear
