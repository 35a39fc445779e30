package shortyuv

import (
	"fmt"

	"github.com/deepteams/shortyuv/internal/dsp"
	"github.com/deepteams/shortyuv/internal/pool"
)

// PixelYUV is a pixel-domain picture buffer: source, prediction or
// reconstruction samples of type P. It shares its addressing with
// ShortYUV, so a partition or unit index names the same samples in both.
type PixelYUV[P Pel] struct {
	geom   geometry
	pad    int
	planes *[numComponents]plane[P]
}

type pixelConfig struct {
	pad int
}

// PixelOption configures NewPixelYUV.
type PixelOption func(*pixelConfig)

// WithPadding adds n samples of stride to each luma row, and n >> HShift
// to each chroma row. Padding is never addressed.
func WithPadding(n int) PixelOption {
	return func(c *pixelConfig) {
		if n > 0 {
			c.pad = n
		}
	}
}

// NewPixelYUV allocates a zeroed width x height picture in color space csp.
func NewPixelYUV[P Pel](width, height int, csp ColorSpace, opts ...PixelOption) (*PixelYUV[P], error) {
	g, err := newGeometry(width, height, csp)
	if err != nil {
		return nil, err
	}
	var cfg pixelConfig
	for _, o := range opts {
		o(&cfg)
	}

	planes := new([numComponents]plane[P])
	for _, c := range g.components() {
		w, h := g.planeDims(c)
		stride := w + cfg.pad
		if c != Luma {
			stride = w + cfg.pad>>g.hShift
		}
		if uint64(stride)*uint64(h) > pool.MaxSamples {
			return nil, fmt.Errorf("%w: %v plane %dx%d: %w", ErrAllocation, c, stride, h, pool.ErrTooLarge)
		}
		buf, err := pool.Aligned[P](stride * h)
		if err != nil {
			return nil, fmt.Errorf("%w: %v plane %dx%d: %w", ErrAllocation, c, stride, h, err)
		}
		planes[c] = plane[P]{buf: buf, width: w, height: h, stride: stride}
	}
	return &PixelYUV[P]{geom: g, pad: cfg.pad, planes: planes}, nil
}

func (p *PixelYUV[P]) ready() error {
	if p == nil || p.planes == nil {
		return ErrInvalidState
	}
	return nil
}

func (p *PixelYUV[P]) layout() (geometry, error) {
	if err := p.ready(); err != nil {
		return geometry{}, err
	}
	return p.geom, nil
}

func (p *PixelYUV[P]) checkRegion(c Component, r region) error {
	return p.planes[c].check(c, r)
}

// residualSink narrows residual samples through the source buffer's kernels.
func (p *PixelYUV[P]) residualSink(c Component, k Kernels[P]) sink {
	return planeSink[P]{p: &p.planes[c], narrow: k.BlockCopyPS}
}

// Destroy drops the planes. Later calls fail with ErrInvalidState.
func (p *PixelYUV[P]) Destroy() {
	if p != nil {
		p.planes = nil
		p.geom = geometry{}
	}
}

// Width returns the luma plane width.
func (p *PixelYUV[P]) Width() int { return p.geom.width }

// Height returns the luma plane height.
func (p *PixelYUV[P]) Height() int { return p.geom.height }

// ChromaWidth returns the chroma plane width, 0 for CSP400.
func (p *PixelYUV[P]) ChromaWidth() int { return p.geom.cwidth }

// ChromaHeight returns the chroma plane height, 0 for CSP400.
func (p *PixelYUV[P]) ChromaHeight() int { return p.geom.cheight }

// ColorSpace returns the color space the picture was allocated with.
func (p *PixelYUV[P]) ColorSpace() ColorSpace { return p.geom.csp }

// Stride returns the luma row stride including padding.
func (p *PixelYUV[P]) Stride() int {
	if p.planes == nil {
		return 0
	}
	return p.planes[Luma].stride
}

// CStride returns the chroma row stride including padding.
func (p *PixelYUV[P]) CStride() int {
	if p.planes == nil {
		return 0
	}
	return p.planes[Cb].stride
}

// LumaAddr returns the luma plane from z-scan partition partIdx onwards.
func (p *PixelYUV[P]) LumaAddr(partIdx int) ([]P, error) {
	return partAddr(p.geom, p.planes, Luma, partIdx)
}

// CbAddr returns the Cb plane from z-scan partition partIdx onwards.
func (p *PixelYUV[P]) CbAddr(partIdx int) ([]P, error) {
	return partAddr(p.geom, p.planes, Cb, partIdx)
}

// CrAddr returns the Cr plane from z-scan partition partIdx onwards.
func (p *PixelYUV[P]) CrAddr(partIdx int) ([]P, error) {
	return partAddr(p.geom, p.planes, Cr, partIdx)
}

// LumaUnitAddr returns the luma plane from unit unitIdx of size x size
// tiles onwards.
func (p *PixelYUV[P]) LumaUnitAddr(unitIdx, size int) ([]P, error) {
	return unitAddr(p.geom, p.planes, Luma, unitIdx, size)
}

// CbUnitAddr returns the Cb plane from unit unitIdx onwards.
func (p *PixelYUV[P]) CbUnitAddr(unitIdx, size int) ([]P, error) {
	return unitAddr(p.geom, p.planes, Cb, unitIdx, size)
}

// CrUnitAddr returns the Cr plane from unit unitIdx onwards.
func (p *PixelYUV[P]) CrUnitAddr(unitIdx, size int) ([]P, error) {
	return unitAddr(p.geom, p.planes, Cr, unitIdx, size)
}

// Plane returns the whole of plane c and its stride.
func (p *PixelYUV[P]) Plane(c Component) ([]P, int, error) {
	if p == nil {
		return nil, 0, ErrInvalidState
	}
	return wholePlane(p.geom, p.planes, c)
}

// Fill sets every sample of plane c to v.
func (p *PixelYUV[P]) Fill(c Component, v P) error {
	if _, _, err := p.Plane(c); err != nil {
		return err
	}
	p.planes[c].fill(v)
	return nil
}

// At returns the sample at (x, y) of plane c.
func (p *PixelYUV[P]) At(c Component, x, y int) (P, error) {
	row, err := p.sample(c, x, y)
	if err != nil {
		return 0, err
	}
	return row[0], nil
}

// Set stores v at (x, y) of plane c.
func (p *PixelYUV[P]) Set(c Component, x, y int, v P) error {
	row, err := p.sample(c, x, y)
	if err != nil {
		return err
	}
	row[0] = v
	return nil
}

func (p *PixelYUV[P]) sample(c Component, x, y int) ([]P, error) {
	if _, _, err := p.Plane(c); err != nil {
		return nil, err
	}
	return p.planes[c].from(c, x, y)
}

// CopyBlock copies the w x h block at (sx, sy) of plane c of src to
// (dx, dy) of the same plane of p. The buffers may differ in size; this is
// how pictures are cut into and stitched from coding tree units.
func (p *PixelYUV[P]) CopyBlock(c Component, dx, dy int, src *PixelYUV[P], sx, sy, w, h int) error {
	if _, _, err := p.Plane(c); err != nil {
		return err
	}
	if _, _, err := src.Plane(c); err != nil {
		return err
	}
	dr, sr := region{dx, dy, w, h}, region{sx, sy, w, h}
	if err := p.planes[c].check(c, dr); err != nil {
		return err
	}
	if err := src.planes[c].check(c, sr); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, s := &p.planes[c], &src.planes[c]
	if d := dst.block(dr); d != nil && !sameStart(d, s.block(sr)) {
		dsp.CopyRows(w, h, d, dst.stride, s.block(sr), s.stride)
	}
	return nil
}
