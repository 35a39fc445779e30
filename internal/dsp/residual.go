package dsp

// Pure-Go block kernels. Each row is resliced to exactly its width before
// the inner loop so the compiler can drop the per-sample bounds checks.

// subPS builds a subtract kernel specialized for a w x h block.
func subPS[P Pel](w, h int) SubFunc[P] {
	return func(dst []int16, dstStride int, a, b []P, aStride, bStride int) {
		for y := 0; y < h; y++ {
			d := dst[y*dstStride : y*dstStride+w]
			ra := a[y*aStride : y*aStride+w]
			rb := b[y*bStride : y*bStride+w]
			for x := range d {
				d[x] = int16(int(ra[x]) - int(rb[x]))
			}
		}
	}
}

// pixelAddSS builds the saturating add kernel for samples in [0, maxVal].
// The sum is formed in int, so int16 overflow can never wrap.
func pixelAddSS(maxVal int) AddFunc {
	return func(w, h int, dst []int16, dstStride int, a, b []int16, aStride, bStride int) {
		for y := 0; y < h; y++ {
			d := dst[y*dstStride : y*dstStride+w]
			ra := a[y*aStride : y*aStride+w]
			rb := b[y*bStride : y*bStride+w]
			for x := range d {
				d[x] = int16(ClipPel(int(ra[x])+int(rb[x]), maxVal))
			}
		}
	}
}

// blockCopyPS narrows by plain conversion: out-of-range residuals wrap
// instead of saturating. Reconstruction output has already been clipped by
// PixelAddSS, and callers depend on bit-exact truncation for anything else.
func blockCopyPS[P Pel](w, h int, dst []P, dstStride int, src []int16, srcStride int) {
	for y := 0; y < h; y++ {
		d := dst[y*dstStride : y*dstStride+w]
		s := src[y*srcStride : y*srcStride+w]
		for x := range d {
			d[x] = P(s[x])
		}
	}
}

func blockCopySP[P Pel](w, h int, dst []int16, dstStride int, src []P, srcStride int) {
	for y := 0; y < h; y++ {
		d := dst[y*dstStride : y*dstStride+w]
		s := src[y*srcStride : y*srcStride+w]
		for x := range d {
			d[x] = int16(s[x])
		}
	}
}

// CopyRows copies a w x h block between two strided slices of the same
// sample type.
func CopyRows[T any](w, h int, dst []T, dstStride int, src []T, srcStride int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstStride:y*dstStride+w], src[y*srcStride:y*srcStride+w])
	}
}
