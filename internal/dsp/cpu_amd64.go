//go:build amd64

package dsp

import "golang.org/x/sys/cpu"

// HasVectorUnit reports whether the CPU supports AVX2 and the OS has
// enabled YMM state saving.
func HasVectorUnit() bool {
	return cpu.X86.HasAVX2
}
