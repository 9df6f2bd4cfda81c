// Copyright 2025 ao Authors

//go:build arm64

package qlinear

// NEON is baseline on arm64; no feature probing needed.
func init() {
	currentLevel = LevelNEON
	QGemmFloat32 = qgemmFloat32Unrolled
}
