package shortyuv

import (
	"fmt"

	"github.com/deepteams/shortyuv/internal/dsp"
)

// SubFunc computes dst = a - b over one fixed block shape.
type SubFunc[P Pel] = dsp.SubFunc[P]

// Kernels performs the per-sample work of a buffer. The buffer validates
// every block against its planes before calling in, so implementations
// may assume all slices are long enough for the requested shape.
//
// Implementations must be safe for concurrent use.
type Kernels[P Pel] interface {
	// Name identifies the implementation, e.g. "scalar".
	Name() string

	// BitDepth is the sample depth PixelAddSS clips to.
	BitDepth() int

	// SubPS returns the luma subtract kernel for part.
	SubPS(part Partition) SubFunc[P]

	// ChromaSubPS returns the chroma subtract kernel for luma partition part
	// in color space csp; the kernel covers the subsampled shape.
	ChromaSubPS(csp ColorSpace, part Partition) SubFunc[P]

	// PixelAddSS stores clip(a + b) into dst for a width x height block.
	PixelAddSS(width, height int, dst []int16, dstStride int, a, b []int16, aStride, bStride int)

	// BlockCopyPS narrows residual samples to P by truncation.
	BlockCopyPS(width, height int, dst []P, dstStride int, src []int16, srcStride int)

	// BlockCopySP widens P samples to residual samples.
	BlockCopySP(width, height int, dst []int16, dstStride int, src []P, srcStride int)
}

// NewKernels returns the default kernel set for samples of bitDepth bits.
// It is the allocation-free pure-Go set; see NewHighwayKernels.
func NewKernels[P Pel](bitDepth int) (Kernels[P], error) {
	t, err := dsp.New[P](bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBitDepth, err)
	}
	slogger().Debug("shortyuv: kernels selected", "name", t.Name(), "bitDepth", bitDepth,
		"vectorUnit", dsp.HasVectorUnit(), "hwyTarget", dsp.VectorTarget())
	return t, nil
}

// NewScalarKernels returns the pure-Go kernel set.
func NewScalarKernels[P Pel](bitDepth int) (Kernels[P], error) {
	t, err := dsp.NewScalar[P](bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBitDepth, err)
	}
	return t, nil
}

// NewHighwayKernels returns the kernel set built on go-highway's portable
// vectors. It produces the same samples as NewKernels but allocates on
// every call; use it to cross-check results.
func NewHighwayKernels[P Pel](bitDepth int) (Kernels[P], error) {
	t, err := dsp.NewHighway[P](bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBitDepth, err)
	}
	return t, nil
}
