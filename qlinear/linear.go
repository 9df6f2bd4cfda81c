// Copyright 2025 ao Authors

package qlinear

import (
	"fmt"

	"github.com/gmagogsfm/ao/floatx"
	"github.com/gmagogsfm/ao/workerpool"
)

// Linear is a weight-only quantized linear layer. It owns the packed 6-bit
// weights and per-group tables, and is the validating host layer in front of
// the unchecked kernels: construction rejects every shape the kernels would
// read out of bounds for.
type Linear[T floatx.Element] struct {
	packed      []byte
	scales      []T
	zeros       []T
	inFeatures  int
	outFeatures int
	groupSize   int
}

// validGroupSize reports whether gs has a compiled specialization.
func validGroupSize(gs int) bool {
	for _, s := range GroupSizes {
		if gs == s {
			return true
		}
	}
	return false
}

// NewLinear quantizes a [inFeatures, outFeatures] row-major weight matrix
// into a Linear layer. inFeatures must be a multiple of 4 and groupSize one
// of GroupSizes.
func NewLinear[T floatx.Element](weights []T, inFeatures, outFeatures, groupSize int) (*Linear[T], error) {
	if !validGroupSize(groupSize) {
		return nil, fmt.Errorf("qlinear: unsupported group size %d (supported: %v)", groupSize, GroupSizes)
	}

	packed, scales, zeros, err := Quantize(weights, inFeatures, outFeatures, groupSize)
	if err != nil {
		return nil, err
	}

	return &Linear[T]{
		packed:      packed,
		scales:      scales,
		zeros:       zeros,
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		groupSize:   groupSize,
	}, nil
}

// NewLinearFromPacked wraps pre-quantized weights without re-encoding, for
// layers loaded from a checkpoint. The buffers are used as-is, not copied.
func NewLinearFromPacked[T floatx.Element](packed []byte, scales, zeros []T, inFeatures, outFeatures, groupSize int) (*Linear[T], error) {
	if !validGroupSize(groupSize) {
		return nil, fmt.Errorf("qlinear: unsupported group size %d (supported: %v)", groupSize, GroupSizes)
	}
	if inFeatures%PackFactor != 0 {
		return nil, fmt.Errorf("qlinear: inFeatures=%d is not a multiple of %d", inFeatures, PackFactor)
	}
	if want := outFeatures * PackedRowBytes(inFeatures); len(packed) != want {
		return nil, fmt.Errorf("qlinear: packed buffer has %d bytes, want %d", len(packed), want)
	}
	if want := Groups(inFeatures, groupSize) * outFeatures; len(scales) != want || len(zeros) != want {
		return nil, fmt.Errorf("qlinear: scale/zero tables have %d/%d elements, want %d", len(scales), len(zeros), want)
	}

	return &Linear[T]{
		packed:      packed,
		scales:      scales,
		zeros:       zeros,
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		groupSize:   groupSize,
	}, nil
}

// InFeatures returns K, the reduction dimension.
func (l *Linear[T]) InFeatures() int { return l.inFeatures }

// OutFeatures returns N, the output breadth.
func (l *Linear[T]) OutFeatures() int { return l.outFeatures }

// GroupSize returns the quantization group size.
func (l *Linear[T]) GroupSize() int { return l.groupSize }

// PackedWeights returns the packed 6-bit weight buffer.
func (l *Linear[T]) PackedWeights() []byte { return l.packed }

// Scales returns the [G, N] scale table.
func (l *Linear[T]) Scales() []T { return l.scales }

// Zeros returns the [G, N] zero-point table.
func (l *Linear[T]) Zeros() []T { return l.zeros }

// EntryPoint returns the canonical name of the kernel specialization this
// layer dispatches to.
func (l *Linear[T]) EntryPoint() string {
	return Name[T](l.groupSize)
}

// Forward computes output = input · dequant(weights) for a [batch,
// InFeatures] input into a [batch, OutFeatures] output.
func (l *Linear[T]) Forward(input, output []T, batch int) error {
	if len(input) < batch*l.inFeatures {
		return fmt.Errorf("qlinear: input has %d elements, want %d", len(input), batch*l.inFeatures)
	}
	if len(output) < batch*l.outFeatures {
		return fmt.Errorf("qlinear: output has %d elements, want %d", len(output), batch*l.outFeatures)
	}

	kernelFor[T]()(input, l.packed, l.scales, l.zeros, output, batch, l.inFeatures, l.outFeatures, l.groupSize)
	return nil
}

// ForwardParallel is Forward with the output grid spread across the pool.
func (l *Linear[T]) ForwardParallel(pool *workerpool.Pool, input, output []T, batch int) error {
	if len(input) < batch*l.inFeatures {
		return fmt.Errorf("qlinear: input has %d elements, want %d", len(input), batch*l.inFeatures)
	}
	if len(output) < batch*l.outFeatures {
		return fmt.Errorf("qlinear: output has %d elements, want %d", len(output), batch*l.outFeatures)
	}

	ParallelQGemm(pool, input, l.packed, l.scales, l.zeros, output, batch, l.inFeatures, l.outFeatures, l.groupSize)
	return nil
}
