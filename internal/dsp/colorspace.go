package dsp

import "fmt"

// ColorSpace identifies the chroma subsampling layout of a YUV buffer.
type ColorSpace int

const (
	CSP400 ColorSpace = iota // monochrome, no chroma planes
	CSP420                   // chroma halved horizontally and vertically
	CSP422                   // chroma halved horizontally
	CSP444                   // chroma at full resolution
	NumColorSpaces
)

// chromaShifts holds {hShift, vShift} per color space.
var chromaShifts = [NumColorSpaces][2]int{
	CSP400: {0, 0},
	CSP420: {1, 1},
	CSP422: {1, 0},
	CSP444: {0, 0},
}

// Valid reports whether c is a known color space.
func (c ColorSpace) Valid() bool {
	return c >= 0 && c < NumColorSpaces
}

// Shifts returns the horizontal and vertical chroma subsampling shifts.
func (c ColorSpace) Shifts() (hShift, vShift int) {
	return chromaShifts[c][0], chromaShifts[c][1]
}

// HasChroma reports whether buffers in this color space carry chroma planes.
func (c ColorSpace) HasChroma() bool {
	return c != CSP400
}

// String returns the conventional name, e.g. "i420".
func (c ColorSpace) String() string {
	switch c {
	case CSP400:
		return "i400"
	case CSP420:
		return "i420"
	case CSP422:
		return "i422"
	case CSP444:
		return "i444"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int(c))
	}
}

// ParseColorSpace accepts "400", "420", "422", "444" with or without an
// "i" prefix.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch s {
	case "400", "i400":
		return CSP400, nil
	case "420", "i420":
		return CSP420, nil
	case "422", "i422":
		return CSP422, nil
	case "444", "i444":
		return CSP444, nil
	}
	return -1, fmt.Errorf("dsp: unknown color space %q", s)
}
