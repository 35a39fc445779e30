package shortyuv

import (
	"fmt"
	"testing"
)

func benchBuffers(b *testing.B, csp ColorSpace) (*ShortYUV[uint8], *ShortYUV[uint8], *PixelYUV[uint8], *PixelYUV[uint8]) {
	b.Helper()
	k := mustKernels[uint8](b, 8)
	res := mustCreate(b, k, 64, 64, csp)
	pw := mustCreate(b, k, 64, 64, csp)
	src := randPixels[uint8](b, 64, 64, csp, 255, 1)
	pred := randPixels[uint8](b, 64, 64, csp, 255, 2)
	return res, pw, src, pred
}

func BenchmarkSubtract(b *testing.B) {
	for _, size := range []int{4, 8, 16, 32, 64} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			res, _, src, pred := benchBuffers(b, CSP420)
			units := (64 / size) * (64 / size)
			b.SetBytes(64 * 64 * 3 / 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for u := 0; u < units; u++ {
					if err := res.Subtract(src, pred, u, size); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkAddClip(b *testing.B) {
	for _, size := range []int{8, 32} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			res, pw, src, pred := benchBuffers(b, CSP420)
			units := (64 / size) * (64 / size)
			for u := 0; u < units; u++ {
				res.Subtract(src, pred, u, size)
				pw.LoadPixels(pred, u, size)
			}
			b.SetBytes(64 * 64 * 3 / 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for u := 0; u < units; u++ {
					if err := res.AddClip(res, pw, u, size); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkCopyPartToPartYuv(b *testing.B) {
	res, _, _, recon := benchBuffers(b, CSP420)
	b.SetBytes(64 * 64 * 3 / 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := res.CopyPartToPartYuv(recon, 0, 64, 64); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCreateDestroy(b *testing.B) {
	k := mustKernels[uint16](b, 10)
	s := New(k)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := s.Create(64, 64, CSP420); err != nil {
			b.Fatal(err)
		}
		s.Destroy()
	}
}
