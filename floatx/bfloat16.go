// Copyright 2025 ao Authors

package floatx

import "math"

// BFloat16 represents a Brain Float 16 (bfloat16) number.
// It has the same exponent range as float32 but reduced precision, which
// suits weight storage where dynamic range matters more than precision.
//
// Format: Sign (1 bit) | Exponent (8 bits) | Mantissa (7 bits)
//
//	S | EEEEEEEE | MMMMMMM
//
// BFloat16 is float32 with the lower 16 mantissa bits truncated, so
// conversions are trivial bit shifts.
type BFloat16 uint16

// BFloat16 constants for special values.
const (
	BFloat16Zero     BFloat16 = 0x0000 // Positive zero
	BFloat16NegZero  BFloat16 = 0x8000 // Negative zero
	BFloat16One      BFloat16 = 0x3F80 // 1.0
	BFloat16NegOne   BFloat16 = 0xBF80 // -1.0
	BFloat16MaxValue BFloat16 = 0x7F7F // ~3.39e38 (max finite value)
	BFloat16Inf      BFloat16 = 0x7F80 // Positive infinity
	BFloat16NegInf   BFloat16 = 0xFF80 // Negative infinity
	BFloat16NaN      BFloat16 = 0x7FC0 // Quiet NaN (canonical)
)

// BFloat16ToFloat32 converts a single BFloat16 to float32.
// This is a simple bit shift since bfloat16 is truncated float32.
func BFloat16ToFloat32(b BFloat16) float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float32ToBFloat16 converts a float32 to BFloat16.
// Uses round-to-nearest-even on the truncated bits.
func Float32ToBFloat16(f float32) BFloat16 {
	bits := math.Float32bits(f)

	// NaN: return canonical quiet NaN with the same sign
	if bits&0x7FFFFFFF > 0x7F800000 {
		return BFloat16((bits >> 16) | 0x0040)
	}

	// Round to nearest even: the rounding position is bit 15, just below
	// the bf16 mantissa. Adding 0x7FFF plus bit 16 of the original
	// implements round-half-to-even.
	rounding := uint32(0x7FFF) + ((bits >> 16) & 1)
	bits += rounding

	return BFloat16(bits >> 16)
}

// IsNaN returns true if b is a NaN value.
func (b BFloat16) IsNaN() bool {
	exp := (b >> 7) & 0xFF
	mant := b & 0x7F
	return exp == 0xFF && mant != 0
}

// IsInf returns true if b is positive or negative infinity.
func (b BFloat16) IsInf() bool {
	exp := (b >> 7) & 0xFF
	mant := b & 0x7F
	return exp == 0xFF && mant == 0
}

// IsZero returns true if b is positive or negative zero.
func (b BFloat16) IsZero() bool {
	return b&0x7FFF == 0
}

// IsNegative returns true if the sign bit is set.
func (b BFloat16) IsNegative() bool {
	return b&0x8000 != 0
}

// Float32 converts this BFloat16 to float32.
func (b BFloat16) Float32() float32 {
	return BFloat16ToFloat32(b)
}

// Bits returns the raw uint16 representation.
func (b BFloat16) Bits() uint16 {
	return uint16(b)
}

// NewBFloat16 creates a BFloat16 from a float32 value.
func NewBFloat16(f float32) BFloat16 {
	return Float32ToBFloat16(f)
}

// BFloat16FromBits creates a BFloat16 from raw bits.
func BFloat16FromBits(bits uint16) BFloat16 {
	return BFloat16(bits)
}
