package shortyuv

import (
	"fmt"

	"github.com/deepteams/shortyuv/internal/dsp"
)

// Destination is a buffer that residual samples can be copied into.
// *ShortYUV keeps samples as they are; *PixelYUV narrows them to P by
// truncation through the source buffer's kernels.
type Destination[P Pel] interface {
	layout() (geometry, error)
	residualSink(c Component, k Kernels[P]) sink
}

// sink writes residual blocks into one destination plane.
type sink interface {
	check(c Component, r region) error
	put(r region, src []int16, srcStride int)
}

// planeSink is the one copy path for every destination kind; narrow is the
// only thing that varies.
type planeSink[T any] struct {
	p      *plane[T]
	narrow func(width, height int, dst []T, dstStride int, src []int16, srcStride int)
}

func (ps planeSink[T]) check(c Component, r region) error {
	return ps.p.check(c, r)
}

func (ps planeSink[T]) put(r region, src []int16, srcStride int) {
	dst := ps.p.block(r)
	if dst == nil || sameStart(dst, src) {
		return
	}
	ps.narrow(r.w, r.h, dst, ps.p.stride, src, srcStride)
}

func (s *ShortYUV[P]) residualSink(c Component, _ Kernels[P]) sink {
	return planeSink[int16]{p: &s.planes[c], narrow: dsp.CopyRows[int16]}
}

// CopyPartToPartYuv copies the width x height luma block at z-scan
// partition partIdx, and the matching subsampled chroma blocks, into the
// same partition of dst.
func (s *ShortYUV[P]) CopyPartToPartYuv(dst Destination[P], partIdx, width, height int) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.copyPart(dst, partIdx, s.geom.components(),
		width, height, width>>s.geom.hShift, height>>s.geom.vShift)
}

// CopyPartToPartLuma copies the width x height luma block at partIdx.
func (s *ShortYUV[P]) CopyPartToPartLuma(dst Destination[P], partIdx, width, height int) error {
	return s.copyPart(dst, partIdx, []Component{Luma}, width, height, 0, 0)
}

// CopyPartToPartChroma copies the width x height chroma block at partIdx
// from the planes chosen by sel. width and height are in chroma samples.
// On a CSP400 buffer it does nothing.
func (s *ShortYUV[P]) CopyPartToPartChroma(dst Destination[P], partIdx, width, height int, sel ChromaSelect) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.geom.csp.HasChroma() {
		return nil
	}
	return s.copyPart(dst, partIdx, sel.components(), 0, 0, width, height)
}

// copyPart validates every selected plane of both buffers, then copies.
// Identical source and destination samples are skipped.
func (s *ShortYUV[P]) copyPart(dst Destination[P], partIdx int, comps []Component, lumaW, lumaH, chromaW, chromaH int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if dst == nil {
		return ErrInvalidState
	}
	dg, err := dst.layout()
	if err != nil {
		return err
	}
	if err := checkPartIdx(partIdx); err != nil {
		return err
	}
	var (
		sinks [numComponents]sink
		regs  [numComponents]region
	)
	for _, c := range comps {
		w, h := lumaW, lumaH
		if c != Luma {
			if err := s.geom.sameChroma(dg); err != nil {
				return err
			}
			w, h = chromaW, chromaH
		}
		r := s.geom.partRegion(c, partIdx, w, h)
		if err := s.planes[c].check(c, r); err != nil {
			return err
		}
		sk := dst.residualSink(c, s.kernels)
		if err := sk.check(c, r); err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		sinks[c], regs[c] = sk, r
	}
	for _, c := range comps {
		src := &s.planes[c]
		sinks[c].put(regs[c], src.block(regs[c]), src.stride)
	}
	return nil
}
