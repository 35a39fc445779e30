//go:build arm64

package dsp

import "golang.org/x/sys/cpu"

// HasVectorUnit reports whether the CPU has Advanced SIMD (NEON).
func HasVectorUnit() bool {
	return cpu.ARM64.HasASIMD
}
