// Package dsp provides the per-block sample kernels used by the residual
// buffers: subtract, saturating add and narrowing/widening block copies.
//
// Kernels are grouped in a Table. A Table is immutable once built, so a
// single Table may be shared by any number of buffers and goroutines.
package dsp

import (
	"errors"
	"fmt"
	"unsafe"
)

// Pel is the pixel-domain sample container.
type Pel interface {
	~uint8 | ~uint16
}

// SubFunc computes dst = a - b over the block shape it was built for.
// Every slice starts at the block origin; strides are in samples.
type SubFunc[P Pel] func(dst []int16, dstStride int, a, b []P, aStride, bStride int)

// AddFunc computes dst = clip(a + b) over a width x height block.
type AddFunc func(width, height int, dst []int16, dstStride int, a, b []int16, aStride, bStride int)

// CopyPSFunc narrows a residual block into pixel samples.
type CopyPSFunc[P Pel] func(width, height int, dst []P, dstStride int, src []int16, srcStride int)

// CopySPFunc widens a pixel block into residual samples.
type CopySPFunc[P Pel] func(width, height int, dst []int16, dstStride int, src []P, srcStride int)

// ErrBitDepth is returned when a bit depth does not fit the sample types.
var ErrBitDepth = errors.New("dsp: unsupported bit depth")

// Table is one complete kernel set for pixel type P.
type Table[P Pel] struct {
	name     string
	bitDepth int

	lumaSub   [NumPartitions]SubFunc[P]
	chromaSub [NumColorSpaces][NumPartitions]SubFunc[P]

	pixelAddSS  AddFunc
	blockCopyPS CopyPSFunc[P]
	blockCopySP CopySPFunc[P]
}

// MaxBitDepth returns the largest bit depth P can carry such that a
// difference of two samples still fits an int16.
func MaxBitDepth[P Pel]() int {
	var zero P
	d := 8 * int(unsafe.Sizeof(zero))
	if d > 15 {
		d = 15
	}
	return d
}

func checkBitDepth[P Pel](bitDepth int) error {
	if bitDepth < 1 || bitDepth > MaxBitDepth[P]() {
		return fmt.Errorf("%w: %d (max %d)", ErrBitDepth, bitDepth, MaxBitDepth[P]())
	}
	return nil
}

// newTable fills every slot of a Table from shape-specializing builders.
func newTable[P Pel](name string, bitDepth int, sub func(w, h int) SubFunc[P], add AddFunc) *Table[P] {
	t := &Table[P]{
		name:        name,
		bitDepth:    bitDepth,
		pixelAddSS:  add,
		blockCopyPS: blockCopyPS[P],
		blockCopySP: blockCopySP[P],
	}
	for p := Partition(0); p < NumPartitions; p++ {
		w, h := p.Dims()
		t.lumaSub[p] = sub(w, h)
		for csp := CSP420; csp < NumColorSpaces; csp++ {
			hs, vs := csp.Shifts()
			t.chromaSub[csp][p] = sub(w>>hs, h>>vs)
		}
	}
	return t
}

// NewScalar returns the pure-Go kernel set.
func NewScalar[P Pel](bitDepth int) (*Table[P], error) {
	if err := checkBitDepth[P](bitDepth); err != nil {
		return nil, err
	}
	return newTable("scalar", bitDepth, subPS[P], pixelAddSS((1<<bitDepth)-1)), nil
}

// New returns the default kernel set. The scalar kernels are allocation
// free and beat the portable highway set on every target, so they are the
// default; NewHighway is opt-in.
func New[P Pel](bitDepth int) (*Table[P], error) {
	return NewScalar[P](bitDepth)
}

// Name identifies the kernel set, e.g. "scalar" or "hwy-neon".
func (t *Table[P]) Name() string { return t.name }

// BitDepth returns the bit depth the saturating kernels clip to.
func (t *Table[P]) BitDepth() int { return t.bitDepth }

// SubPS returns the luma subtract kernel for part.
func (t *Table[P]) SubPS(part Partition) SubFunc[P] {
	return t.lumaSub[part]
}

// ChromaSubPS returns the chroma subtract kernel for luma partition part
// in color space csp. The kernel covers the subsampled block shape. It is
// nil for CSP400.
func (t *Table[P]) ChromaSubPS(csp ColorSpace, part Partition) SubFunc[P] {
	return t.chromaSub[csp][part]
}

// PixelAddSS adds two residual blocks and saturates to [0, 2^bitDepth-1].
func (t *Table[P]) PixelAddSS(width, height int, dst []int16, dstStride int, a, b []int16, aStride, bStride int) {
	t.pixelAddSS(width, height, dst, dstStride, a, b, aStride, bStride)
}

// BlockCopyPS narrows residual samples into pixel samples by truncation.
func (t *Table[P]) BlockCopyPS(width, height int, dst []P, dstStride int, src []int16, srcStride int) {
	t.blockCopyPS(width, height, dst, dstStride, src, srcStride)
}

// BlockCopySP widens pixel samples into residual samples.
func (t *Table[P]) BlockCopySP(width, height int, dst []int16, dstStride int, src []P, srcStride int) {
	t.blockCopySP(width, height, dst, dstStride, src, srcStride)
}

func init() {
	initPartLookup()
}
