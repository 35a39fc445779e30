//go:build !amd64 && !arm64

package dsp

// HasVectorUnit is always false on platforms without a vector target.
func HasVectorUnit() bool {
	return false
}
