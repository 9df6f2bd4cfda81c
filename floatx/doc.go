// Copyright 2025 ao Authors

// Package floatx provides the reduced-precision floating-point storage types
// used by the quantized kernels: IEEE 754 half precision (Float16) and Brain
// Float 16 (BFloat16), both stored in uint16.
//
// Go has no native 16-bit float arithmetic, so all computation follows the
// promote-compute-demote pattern: values are promoted to float32, the math
// runs in float32, and results are demoted back to the storage type. The
// Element constraint and the ToFloat32/FromFloat32 pair let kernels stay
// generic over {float32, Float16, BFloat16} while accumulating in full
// precision.
package floatx
