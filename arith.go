package shortyuv

import "fmt"

// operand is a buffer read by a unit-addressed operation.
type operand interface {
	layout() (geometry, error)
	checkRegion(c Component, r region) error
}

func (s *ShortYUV[P]) checkRegion(c Component, r region) error {
	return s.planes[c].check(c, r)
}

// unitRegions resolves unit unitIdx of size x size tiles in every plane and
// checks the blocks against s and all operands before anything is written.
func (s *ShortYUV[P]) unitRegions(unitIdx, size int, ops ...operand) ([numComponents]region, error) {
	var regs [numComponents]region
	if err := s.ready(); err != nil {
		return regs, err
	}
	for _, op := range ops {
		g, err := op.layout()
		if err != nil {
			return regs, err
		}
		if err := s.geom.compatible(g); err != nil {
			return regs, err
		}
	}
	for _, c := range s.geom.components() {
		r, err := s.geom.unitRegion(c, unitIdx, size)
		if err != nil {
			return regs, err
		}
		if err := s.checkRegion(c, r); err != nil {
			return regs, err
		}
		for _, op := range ops {
			if err := op.checkRegion(c, r); err != nil {
				return regs, err
			}
		}
		regs[c] = r
	}
	return regs, nil
}

// Subtract stores a - b for unit unitIdx of size x size luma tiles, and for
// the matching subsampled block of both chroma planes. size must name a
// square kernel shape (4, 8, 16, 32 or 64). No saturation is applied.
//
// s, a and b must share luma width and color space.
func (s *ShortYUV[P]) Subtract(a, b *PixelYUV[P], unitIdx, size int) error {
	part, ok := PartitionFromSizes(size, size)
	if !ok {
		return fmt.Errorf("%w: no %dx%d subtract kernel", ErrDimensionMismatch, size, size)
	}
	regs, err := s.unitRegions(unitIdx, size, a, b)
	if err != nil {
		return err
	}
	for _, c := range s.geom.components() {
		r := regs[c]
		if r.empty() {
			continue
		}
		sub := s.kernels.SubPS(part)
		if c != Luma {
			sub = s.kernels.ChromaSubPS(s.geom.csp, part)
		}
		dst, pa, pb := &s.planes[c], &a.planes[c], &b.planes[c]
		sub(dst.block(r), dst.stride, pa.block(r), pb.block(r), pa.stride, pb.stride)
	}
	return nil
}

// AddClip stores clip(a + b) for unit unitIdx of size x size luma tiles and
// the matching chroma blocks, saturating every sample to
// [0, 2^BitDepth-1] of the buffer's kernels. Any size that fits the planes
// is accepted. s may be the same buffer as a or b.
func (s *ShortYUV[P]) AddClip(a, b *ShortYUV[P], unitIdx, size int) error {
	regs, err := s.unitRegions(unitIdx, size, a, b)
	if err != nil {
		return err
	}
	for _, c := range s.geom.components() {
		r := regs[c]
		if r.empty() {
			continue
		}
		dst, pa, pb := &s.planes[c], &a.planes[c], &b.planes[c]
		s.kernels.PixelAddSS(r.w, r.h, dst.block(r), dst.stride, pa.block(r), pb.block(r), pa.stride, pb.stride)
	}
	return nil
}

// LoadPixels widens unit unitIdx of src into the same unit of s, so that a
// prediction can take part in AddClip.
func (s *ShortYUV[P]) LoadPixels(src *PixelYUV[P], unitIdx, size int) error {
	regs, err := s.unitRegions(unitIdx, size, src)
	if err != nil {
		return err
	}
	for _, c := range s.geom.components() {
		r := regs[c]
		if r.empty() {
			continue
		}
		dst, ps := &s.planes[c], &src.planes[c]
		s.kernels.BlockCopySP(r.w, r.h, dst.block(r), dst.stride, ps.block(r), ps.stride)
	}
	return nil
}
