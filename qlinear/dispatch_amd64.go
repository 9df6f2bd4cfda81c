// Copyright 2025 ao Authors

//go:build amd64

package qlinear

import "golang.org/x/sys/cpu"

func init() {
	switch {
	case cpu.X86.HasAVX512F:
		currentLevel = LevelAVX512
	case cpu.X86.HasAVX2:
		currentLevel = LevelAVX2
	default:
		currentLevel = LevelScalar
	}

	// Wide cores keep more of the unrolled FMA chains in flight.
	if currentLevel != LevelScalar {
		QGemmFloat32 = qgemmFloat32Unrolled
	}
}
