package dsp

import "github.com/ajroetker/go-highway/hwy"

// Kernels built on highway's portable vector type. Vec values are heap
// slices on every target, so this set allocates per call and runs slower
// than the scalar set; it is an independent reference that the scalar
// kernels are checked against, and it is selectable from the CLI.

// NewHighway returns the highway-backed kernel set.
func NewHighway[P Pel](bitDepth int) (*Table[P], error) {
	if err := checkBitDepth[P](bitDepth); err != nil {
		return nil, err
	}
	return newTable("hwy-"+VectorTarget(), bitDepth, subPSHwy[P], pixelAddSSHwy((1<<bitDepth)-1)), nil
}

// VectorTarget names the highway dispatch target, "scalar" when highway
// runs without a SIMD target or HWY_NO_SIMD is set.
func VectorTarget() string {
	name := hwy.CurrentName()
	if name == "" || hwy.NoSimdEnv() || hwy.CurrentLevel() == hwy.DispatchScalar {
		return "scalar"
	}
	return name
}

func int16Lanes() int {
	return max(hwy.MaxLanes[int16](), 1)
}

func subPSHwy[P Pel](w, h int) SubFunc[P] {
	return func(dst []int16, dstStride int, a, b []P, aStride, bStride int) {
		var wa, wb [MaxBlockSize]int16
		lanes := int16Lanes()
		for y := 0; y < h; y++ {
			d := dst[y*dstStride : y*dstStride+w]
			ra := a[y*aStride : y*aStride+w]
			rb := b[y*bStride : y*bStride+w]
			for x := range ra {
				wa[x] = int16(ra[x])
				wb[x] = int16(rb[x])
			}
			x := 0
			for ; x+lanes <= w; x += lanes {
				hwy.Store(hwy.Sub(hwy.Load(wa[x:w]), hwy.Load(wb[x:w])), d[x:])
			}
			for ; x < w; x++ {
				d[x] = wa[x] - wb[x]
			}
		}
	}
}

func pixelAddSSHwy(maxVal int) AddFunc {
	return func(w, h int, dst []int16, dstStride int, a, b []int16, aStride, bStride int) {
		lanes := int16Lanes()
		lo := hwy.Zero[int16]()
		hi := hwy.Set(int16(maxVal))
		for y := 0; y < h; y++ {
			d := dst[y*dstStride : y*dstStride+w]
			ra := a[y*aStride : y*aStride+w]
			rb := b[y*bStride : y*bStride+w]
			x := 0
			for ; x+lanes <= w; x += lanes {
				// SaturatedAdd pins int16 overflow before the clamp sees it.
				sum := hwy.SaturatedAdd(hwy.Load(ra[x:]), hwy.Load(rb[x:]))
				hwy.Store(hwy.Min(hwy.Max(sum, lo), hi), d[x:])
			}
			for ; x < w; x++ {
				d[x] = int16(ClipPel(int(ra[x])+int(rb[x]), maxVal))
			}
		}
	}
}
