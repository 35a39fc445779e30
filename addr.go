package shortyuv

import "fmt"

// Block addressing shared by ShortYUV and PixelYUV. Both buffers resolve a
// partition or unit index through these functions alone, so the same index
// names the same sample coordinates in either buffer.

const (
	// MaxCUSize is the edge of the coding tree unit that partition indices
	// subdivide.
	MaxCUSize = 64

	// MinUnitSize is the edge of the smallest addressable partition.
	MinUnitSize = 4

	// NumPartIdx is the number of minimum units in a coding tree unit.
	NumPartIdx = (MaxCUSize / MinUnitSize) * (MaxCUSize / MinUnitSize)
)

// region is a block in one plane's sample coordinates.
type region struct {
	x, y, w, h int
}

func (r region) empty() bool {
	return r.w <= 0 || r.h <= 0
}

// compact1By1 keeps the even bits of v and packs them together.
func compact1By1(v int) int {
	v &= 0x5555
	v = (v | v>>1) & 0x3333
	v = (v | v>>2) & 0x0f0f
	v = (v | v>>4) & 0x00ff
	return v
}

// partCoord returns the luma position of z-scan partition partIdx relative
// to the top-left corner of its coding tree unit.
func partCoord(partIdx int) (x, y int) {
	return compact1By1(partIdx) * MinUnitSize, compact1By1(partIdx>>1) * MinUnitSize
}

func checkPartIdx(partIdx int) error {
	if partIdx < 0 || partIdx >= NumPartIdx {
		return fmt.Errorf("%w: partition index %d outside [0,%d)", ErrDimensionMismatch, partIdx, NumPartIdx)
	}
	return nil
}

// geometry is the plane layout shared by both buffer kinds.
type geometry struct {
	width, height   int
	cwidth, cheight int
	hShift, vShift  int
	csp             ColorSpace
}

func newGeometry(width, height int, csp ColorSpace) (geometry, error) {
	if !csp.Valid() {
		return geometry{}, fmt.Errorf("%w: %d", ErrInvalidColorSpace, int(csp))
	}
	if width <= 0 || height <= 0 {
		return geometry{}, fmt.Errorf("%w: %dx%d buffer", ErrDimensionMismatch, width, height)
	}
	g := geometry{width: width, height: height, csp: csp}
	g.hShift, g.vShift = csp.Shifts()
	if csp.HasChroma() {
		g.cwidth = width >> g.hShift
		g.cheight = height >> g.vShift
	}
	return g, nil
}

// planeDims returns the size of plane c.
func (g geometry) planeDims(c Component) (w, h int) {
	if c == Luma {
		return g.width, g.height
	}
	return g.cwidth, g.cheight
}

// components lists the planes the layout carries.
func (g geometry) components() []Component {
	if g.csp.HasChroma() {
		return []Component{Luma, Cb, Cr}
	}
	return []Component{Luma}
}

// partRegion places a width x height block of plane c at z-scan partition
// partIdx. width and height are in plane c's own samples.
func (g geometry) partRegion(c Component, partIdx, width, height int) region {
	x, y := partCoord(partIdx)
	if c != Luma {
		x >>= g.hShift
		y >>= g.vShift
	}
	return region{x, y, width, height}
}

// unitRegion maps unit unitIdx of size x size tiles, laid out in raster
// order over the luma width, to plane c.
func (g geometry) unitRegion(c Component, unitIdx, size int) (region, error) {
	if size <= 0 || size > g.width || unitIdx < 0 {
		return region{}, fmt.Errorf("%w: unit %d of size %d in %d-wide plane", ErrDimensionMismatch, unitIdx, size, g.width)
	}
	perRow := g.width / size
	x := (unitIdx % perRow) * size
	y := (unitIdx / perRow) * size
	if c == Luma {
		return region{x, y, size, size}, nil
	}
	return region{x >> g.hShift, y >> g.vShift, size >> g.hShift, size >> g.vShift}, nil
}

// compatible reports whether buffers with layouts g and o can be combined
// by unit index: same tile grid and same chroma layout.
func (g geometry) compatible(o geometry) error {
	if g.width != o.width || g.csp != o.csp {
		return fmt.Errorf("%w: %d-wide %v buffer combined with %d-wide %v buffer",
			ErrDimensionMismatch, g.width, g.csp, o.width, o.csp)
	}
	return nil
}

// sameChroma reports whether two layouts subsample chroma identically,
// which is all partition-addressed copies need.
func (g geometry) sameChroma(o geometry) error {
	if g.csp != o.csp {
		return fmt.Errorf("%w: %v buffer copied into %v buffer", ErrDimensionMismatch, g.csp, o.csp)
	}
	return nil
}
