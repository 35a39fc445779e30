package shortyuv

import "fmt"

// plane is one sample array with its own row stride.
type plane[T any] struct {
	buf           []T
	width, height int
	stride        int
}

// check reports whether r lies inside p.
func (p *plane[T]) check(c Component, r region) error {
	if r.x < 0 || r.y < 0 || r.w < 0 || r.h < 0 || r.x+r.w > p.width || r.y+r.h > p.height {
		return fmt.Errorf("%w: %dx%d block at (%d,%d) outside %dx%d %v plane",
			ErrDimensionMismatch, r.w, r.h, r.x, r.y, p.width, p.height, c)
	}
	return nil
}

// block returns the samples spanned by r, from its first sample to its
// last. r must have passed check. Empty regions yield nil.
func (p *plane[T]) block(r region) []T {
	if r.empty() {
		return nil
	}
	start := r.y*p.stride + r.x
	return p.buf[start : start+(r.h-1)*p.stride+r.w]
}

// from returns the plane from (x, y) to its end, for address accessors.
func (p *plane[T]) from(c Component, x, y int) ([]T, error) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return nil, fmt.Errorf("%w: sample (%d,%d) outside %dx%d %v plane", ErrDimensionMismatch, x, y, p.width, p.height, c)
	}
	return p.buf[y*p.stride+x:], nil
}

func (p *plane[T]) fill(v T) {
	for i := range p.buf {
		p.buf[i] = v
	}
}

// sameStart reports whether a and b begin at the same sample in memory.
// Slices of different element types never do.
func sameStart[A, B any](a []A, b []B) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return any(&a[0]) == any(&b[0])
}

// partAddr resolves a partition index in one plane of a buffer.
func partAddr[T any](g geometry, planes *[numComponents]plane[T], c Component, partIdx int) ([]T, error) {
	if planes == nil {
		return nil, ErrInvalidState
	}
	if c != Luma && !g.csp.HasChroma() {
		return nil, fmt.Errorf("%w: %v buffer has no %v plane", ErrDimensionMismatch, g.csp, c)
	}
	if err := checkPartIdx(partIdx); err != nil {
		return nil, err
	}
	r := g.partRegion(c, partIdx, 0, 0)
	return planes[c].from(c, r.x, r.y)
}

// unitAddr resolves a unit index of size x size luma tiles in one plane.
func unitAddr[T any](g geometry, planes *[numComponents]plane[T], c Component, unitIdx, size int) ([]T, error) {
	if planes == nil {
		return nil, ErrInvalidState
	}
	if c != Luma && !g.csp.HasChroma() {
		return nil, fmt.Errorf("%w: %v buffer has no %v plane", ErrDimensionMismatch, g.csp, c)
	}
	r, err := g.unitRegion(c, unitIdx, size)
	if err != nil {
		return nil, err
	}
	return planes[c].from(c, r.x, r.y)
}

// wholePlane returns plane c and its stride.
func wholePlane[T any](g geometry, planes *[numComponents]plane[T], c Component) ([]T, int, error) {
	if planes == nil {
		return nil, 0, ErrInvalidState
	}
	if c < Luma || c >= numComponents {
		return nil, 0, fmt.Errorf("%w: no plane %d", ErrDimensionMismatch, int(c))
	}
	if c != Luma && !g.csp.HasChroma() {
		return nil, 0, fmt.Errorf("%w: %v buffer has no %v plane", ErrDimensionMismatch, g.csp, c)
	}
	p := &planes[c]
	return p.buf, p.stride, nil
}
