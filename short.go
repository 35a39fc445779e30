package shortyuv

import (
	"fmt"

	"github.com/deepteams/shortyuv/internal/pool"
)

// ShortYUV is a residual buffer: one luma and two chroma planes of int16
// samples, each with a row stride equal to its width. P is the pixel type
// of the PixelYUV buffers it is combined with.
//
// The zero value is not usable; construct one with New, then Create it.
type ShortYUV[P Pel] struct {
	kernels Kernels[P]
	geom    geometry

	// planes is nil until Create succeeds and again after Destroy.
	planes *[numComponents]plane[int16]
}

// New returns an unallocated residual buffer that runs its arithmetic
// through k. It panics if k is nil.
func New[P Pel](k Kernels[P]) *ShortYUV[P] {
	if k == nil {
		panic("shortyuv: New called with nil Kernels")
	}
	return &ShortYUV[P]{kernels: k}
}

// Create allocates planes for a width x height luma plane in color space
// csp. Samples are not cleared; call Clear for a zeroed buffer. If the
// buffer is already allocated its planes are released first.
//
// On failure the buffer is left unallocated.
func (s *ShortYUV[P]) Create(width, height int, csp ColorSpace) error {
	g, err := newGeometry(width, height, csp)
	if err != nil {
		return err
	}
	s.Destroy()

	planes := new([numComponents]plane[int16])
	for _, c := range g.components() {
		w, h := g.planeDims(c)
		if uint64(w)*uint64(h) > pool.MaxSamples {
			releasePlanes(planes)
			return fmt.Errorf("%w: %v plane %dx%d: %w", ErrAllocation, c, w, h, pool.ErrTooLarge)
		}
		buf, err := pool.GetInt16(w * h)
		if err != nil {
			releasePlanes(planes)
			return fmt.Errorf("%w: %v plane %dx%d: %w", ErrAllocation, c, w, h, err)
		}
		planes[c] = plane[int16]{buf: buf, width: w, height: h, stride: w}
	}
	s.geom = g
	s.planes = planes
	return nil
}

func releasePlanes(planes *[numComponents]plane[int16]) {
	for i := range planes {
		if planes[i].buf != nil {
			pool.PutInt16(planes[i].buf)
			planes[i] = plane[int16]{}
		}
	}
}

// Destroy releases the planes. Slices previously returned by the address
// accessors must not be used afterwards. Destroy is safe to call on an
// unallocated buffer and may be called any number of times.
func (s *ShortYUV[P]) Destroy() {
	if s.planes == nil {
		return
	}
	releasePlanes(s.planes)
	s.planes = nil
	s.geom = geometry{}
}

// Clear zero-fills all planes.
func (s *ShortYUV[P]) Clear() error {
	if err := s.ready(); err != nil {
		return err
	}
	for i := range s.planes {
		clear(s.planes[i].buf)
	}
	return nil
}

// Ready reports whether the buffer is allocated.
func (s *ShortYUV[P]) Ready() bool { return s.planes != nil }

func (s *ShortYUV[P]) ready() error {
	if s == nil || s.planes == nil {
		return ErrInvalidState
	}
	return nil
}

// layout is shared by the Destination implementation.
func (s *ShortYUV[P]) layout() (geometry, error) {
	if err := s.ready(); err != nil {
		return geometry{}, err
	}
	return s.geom, nil
}

// Width returns the luma plane width, 0 when unallocated.
func (s *ShortYUV[P]) Width() int { return s.geom.width }

// Height returns the luma plane height.
func (s *ShortYUV[P]) Height() int { return s.geom.height }

// ChromaWidth returns Width() >> HShift(), or 0 for CSP400.
func (s *ShortYUV[P]) ChromaWidth() int { return s.geom.cwidth }

// ChromaHeight returns Height() >> VShift(), or 0 for CSP400.
func (s *ShortYUV[P]) ChromaHeight() int { return s.geom.cheight }

// HShift returns the horizontal chroma subsampling shift.
func (s *ShortYUV[P]) HShift() int { return s.geom.hShift }

// VShift returns the vertical chroma subsampling shift.
func (s *ShortYUV[P]) VShift() int { return s.geom.vShift }

// ColorSpace returns the color space given to Create.
func (s *ShortYUV[P]) ColorSpace() ColorSpace { return s.geom.csp }

// Stride returns the luma row stride, which equals Width().
func (s *ShortYUV[P]) Stride() int { return s.geom.width }

// CStride returns the chroma row stride, which equals ChromaWidth().
func (s *ShortYUV[P]) CStride() int { return s.geom.cwidth }

// Kernels returns the kernel set the buffer was built with.
func (s *ShortYUV[P]) Kernels() Kernels[P] { return s.kernels }

// LumaAddr returns the luma plane from z-scan partition partIdx onwards.
func (s *ShortYUV[P]) LumaAddr(partIdx int) ([]int16, error) {
	return partAddr(s.geom, s.planes, Luma, partIdx)
}

// CbAddr returns the Cb plane from z-scan partition partIdx onwards.
func (s *ShortYUV[P]) CbAddr(partIdx int) ([]int16, error) {
	return partAddr(s.geom, s.planes, Cb, partIdx)
}

// CrAddr returns the Cr plane from z-scan partition partIdx onwards.
func (s *ShortYUV[P]) CrAddr(partIdx int) ([]int16, error) {
	return partAddr(s.geom, s.planes, Cr, partIdx)
}

// LumaUnitAddr returns the luma plane from unit unitIdx of size x size
// tiles onwards.
func (s *ShortYUV[P]) LumaUnitAddr(unitIdx, size int) ([]int16, error) {
	return unitAddr(s.geom, s.planes, Luma, unitIdx, size)
}

// CbUnitAddr returns the Cb plane from unit unitIdx onwards.
func (s *ShortYUV[P]) CbUnitAddr(unitIdx, size int) ([]int16, error) {
	return unitAddr(s.geom, s.planes, Cb, unitIdx, size)
}

// CrUnitAddr returns the Cr plane from unit unitIdx onwards.
func (s *ShortYUV[P]) CrUnitAddr(unitIdx, size int) ([]int16, error) {
	return unitAddr(s.geom, s.planes, Cr, unitIdx, size)
}

// Plane returns the whole of plane c and its stride.
func (s *ShortYUV[P]) Plane(c Component) ([]int16, int, error) {
	return wholePlane(s.geom, s.planes, c)
}
