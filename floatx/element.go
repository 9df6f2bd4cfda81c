// Copyright 2025 ao Authors

package floatx

// Element is the constraint satisfied by every storage type the quantized
// kernels accept: native float32 plus the two software 16-bit formats.
type Element interface {
	float32 | Float16 | BFloat16
}

// ToFloat32 promotes a storage element to float32. For float32 this is the
// identity; for the 16-bit formats it performs the full conversion.
//
// Inside a monomorphized generic function the type switch resolves to a
// single branch, so this compiles to (nearly) direct conversion code.
func ToFloat32[T Element](v T) float32 {
	switch x := any(v).(type) {
	case float32:
		return x
	case Float16:
		return Float16ToFloat32(x)
	case BFloat16:
		return BFloat16ToFloat32(x)
	}
	// Unreachable: the Element constraint admits no other types.
	return 0
}

// FromFloat32 demotes a float32 to the storage type, rounding to nearest
// even for the 16-bit formats.
func FromFloat32[T Element](f float32) T {
	var z T
	switch any(z).(type) {
	case float32:
		return any(f).(T)
	case Float16:
		return any(Float32ToFloat16(f)).(T)
	case BFloat16:
		return any(Float32ToBFloat16(f)).(T)
	}
	return z
}

// TypeName returns the lower-case name used in kernel entry-point names:
// "float32", "float16", or "bfloat16".
func TypeName[T Element]() string {
	var z T
	switch any(z).(type) {
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	default:
		return "float32"
	}
}

// ToFloat32s converts a slice of storage elements to a freshly allocated
// float32 slice.
func ToFloat32s[T Element](src []T) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = ToFloat32(v)
	}
	return dst
}

// FromFloat32s converts a float32 slice to a freshly allocated slice of the
// storage type.
func FromFloat32s[T Element](src []float32) []T {
	dst := make([]T, len(src))
	for i, v := range src {
		dst[i] = FromFloat32[T](v)
	}
	return dst
}
