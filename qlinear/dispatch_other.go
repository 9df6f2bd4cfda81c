// Copyright 2025 ao Authors

//go:build !amd64 && !arm64

package qlinear

func init() {
	currentLevel = LevelScalar
}
