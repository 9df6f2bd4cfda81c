// Copyright 2025 ao Authors

package qlinear

const (
	// PackFactor is the number of weight codes per packing unit.
	PackFactor = 4

	// PackedUnitBytes is the byte width of one packing unit:
	// 4 codes * 6 bits = 24 bits = 3 bytes, no padding.
	PackedUnitBytes = 3

	// MaxCode is the largest representable 6-bit weight code.
	MaxCode = 63
)

// PackedRowBytes returns the number of bytes one output column's K weight
// codes occupy in the packed buffer. K must be a multiple of PackFactor.
func PackedRowBytes(K int) int {
	return PackedUnitBytes * (K / PackFactor)
}

// unpackUnit recovers four 6-bit codes from one three-byte packing unit.
// The bit layout is fixed; see the package documentation.
func unpackUnit(b0, b1, b2 byte) (w0, w1, w2, w3 byte) {
	w0 = ((b0 & 0x03) << 4) | (b1 & 0x0F)
	w1 = ((b0 & 0x0C) << 2) | ((b1 & 0xF0) >> 4)
	w2 = (b0 & 0x30) | (b2 & 0x0F)
	w3 = ((b0 & 0xC0) >> 2) | ((b2 & 0xF0) >> 4)
	return
}

// packUnit is the exact inverse of unpackUnit. Codes must be in [0, 63].
func packUnit(w0, w1, w2, w3 byte) (b0, b1, b2 byte) {
	b0 = ((w0 >> 4) & 0x03) | (((w1 >> 4) & 0x03) << 2) | (w2 & 0x30) | (((w3 >> 4) & 0x03) << 6)
	b1 = (w0 & 0x0F) | ((w1 & 0x0F) << 4)
	b2 = (w2 & 0x0F) | ((w3 & 0x0F) << 4)
	return
}

// Pack6 packs 6-bit codes into dst, four codes per three bytes.
// len(codes) must be a multiple of PackFactor and dst must have at least
// PackedRowBytes(len(codes)) bytes. Codes above MaxCode have their high bits
// discarded. Returns the number of bytes written.
func Pack6(codes []uint8, dst []byte) int {
	units := len(codes) / PackFactor
	for u := 0; u < units; u++ {
		c := codes[u*PackFactor:]
		b0, b1, b2 := packUnit(c[0]&MaxCode, c[1]&MaxCode, c[2]&MaxCode, c[3]&MaxCode)
		d := dst[u*PackedUnitBytes:]
		d[0], d[1], d[2] = b0, b1, b2
	}
	return units * PackedUnitBytes
}

// Unpack6 unpacks 6-bit codes from src into codes, the inverse of Pack6.
// len(codes) must be a multiple of PackFactor and src must have at least
// PackedRowBytes(len(codes)) bytes. Returns the number of codes written.
func Unpack6(src []byte, codes []uint8) int {
	units := len(codes) / PackFactor
	for u := 0; u < units; u++ {
		s := src[u*PackedUnitBytes:]
		w0, w1, w2, w3 := unpackUnit(s[0], s[1], s[2])
		c := codes[u*PackFactor:]
		c[0], c[1], c[2], c[3] = w0, w1, w2, w3
	}
	return units * PackFactor
}
