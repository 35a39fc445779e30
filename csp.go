package shortyuv

import (
	"fmt"

	"github.com/deepteams/shortyuv/internal/dsp"
)

// Pel is the pixel-domain sample type paired with a residual buffer.
type Pel = dsp.Pel

// ColorSpace identifies the chroma subsampling layout.
type ColorSpace = dsp.ColorSpace

// Color spaces.
const (
	CSP400 = dsp.CSP400
	CSP420 = dsp.CSP420
	CSP422 = dsp.CSP422
	CSP444 = dsp.CSP444
)

// ParseColorSpace accepts "400", "420", "422" and "444", optionally
// prefixed with "i".
func ParseColorSpace(s string) (ColorSpace, error) {
	csp, err := dsp.ParseColorSpace(s)
	if err != nil {
		return csp, fmt.Errorf("%w: %q", ErrInvalidColorSpace, s)
	}
	return csp, nil
}

// Partition identifies a fixed kernel block shape.
type Partition = dsp.Partition

// PartitionFromSizes returns the kernel shape for a width x height block.
func PartitionFromSizes(width, height int) (Partition, bool) {
	return dsp.PartitionFromSizes(width, height)
}

// Component selects one plane of a buffer.
type Component int

const (
	Luma Component = iota
	Cb
	Cr
	numComponents
)

// String returns "Y", "Cb" or "Cr".
func (c Component) String() string {
	switch c {
	case Luma:
		return "Y"
	case Cb:
		return "Cb"
	case Cr:
		return "Cr"
	}
	return "Component(?)"
}

// ChromaSelect picks the chroma planes touched by CopyPartToPartChroma.
// Any value other than ChromaCb or ChromaCr selects both planes.
type ChromaSelect uint

const (
	ChromaCb   ChromaSelect = 0
	ChromaCr   ChromaSelect = 1
	ChromaBoth ChromaSelect = 2
)

// components returns the planes selected by sel.
func (sel ChromaSelect) components() []Component {
	switch sel {
	case ChromaCb:
		return []Component{Cb}
	case ChromaCr:
		return []Component{Cr}
	default:
		return []Component{Cb, Cr}
	}
}
