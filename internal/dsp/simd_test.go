package dsp

import (
	"math/rand"
	"testing"
)

// SIMD conformance tests: verify the highway kernels produce identical
// results to the pure Go reference kernels for every partition shape.

func TestSubPSConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ref, err := NewScalar[uint8](8)
	if err != nil {
		t.Fatal(err)
	}
	vec, err := NewHighway[uint8](8)
	if err != nil {
		t.Fatal(err)
	}
	const stride = 72
	for iter := 0; iter < 20; iter++ {
		a := makeRandPels[uint8](rng, stride*64, 8)
		b := makeRandPels[uint8](rng, stride*64, 8)
		for p := Partition(0); p < NumPartitions; p++ {
			goOut := make([]int16, 64*64)
			vecOut := make([]int16, 64*64)
			ref.SubPS(p)(goOut, 64, a, b, stride, stride)
			vec.SubPS(p)(vecOut, 64, a, b, stride, stride)
			for i := range goOut {
				if goOut[i] != vecOut[i] {
					t.Fatalf("iter %d part %d index %d: Go=%d hwy=%d", iter, p, i, goOut[i], vecOut[i])
				}
			}
		}
	}
}

func TestChromaSubPSConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	ref, _ := NewScalar[uint16](10)
	vec, _ := NewHighway[uint16](10)
	for iter := 0; iter < 10; iter++ {
		a := makeRandPels[uint16](rng, 64*64, 10)
		b := makeRandPels[uint16](rng, 64*64, 10)
		for csp := CSP420; csp < NumColorSpaces; csp++ {
			for p := Partition(0); p < NumPartitions; p++ {
				goOut := make([]int16, 64*64)
				vecOut := make([]int16, 64*64)
				ref.ChromaSubPS(csp, p)(goOut, 64, a, b, 64, 64)
				vec.ChromaSubPS(csp, p)(vecOut, 64, a, b, 64, 64)
				for i := range goOut {
					if goOut[i] != vecOut[i] {
						t.Fatalf("iter %d %v part %d index %d: Go=%d hwy=%d", iter, csp, p, i, goOut[i], vecOut[i])
					}
				}
			}
		}
	}
}

func TestPixelAddSSConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	ref, _ := NewScalar[uint8](8)
	vec, _ := NewHighway[uint8](8)
	for iter := 0; iter < 200; iter++ {
		w := 1 + rng.Intn(64)
		h := 1 + rng.Intn(64)
		a := makeRandResidual(rng, 64*64, 32767)
		b := makeRandResidual(rng, 64*64, 512)
		goOut := make([]int16, 64*64)
		vecOut := make([]int16, 64*64)
		ref.PixelAddSS(w, h, goOut, 64, a, b, 64, 64)
		vec.PixelAddSS(w, h, vecOut, 64, a, b, 64, 64)
		for i := range goOut {
			if goOut[i] != vecOut[i] {
				t.Fatalf("iter %d (%dx%d) index %d: Go=%d hwy=%d", iter, w, h, i, goOut[i], vecOut[i])
			}
		}
	}
}

func TestDefaultTableDoesNotAllocate(t *testing.T) {
	rng := rand.New(rand.NewSource(45))
	tab, err := New[uint8](8)
	if err != nil {
		t.Fatal(err)
	}
	a := makeRandPels[uint8](rng, 64*64, 8)
	b := makeRandPels[uint8](rng, 64*64, 8)
	ra := makeRandResidual(rng, 64*64, 255)
	rb := makeRandResidual(rng, 64*64, 255)
	res := make([]int16, 64*64)
	pix := make([]uint8, 64*64)
	sub := tab.SubPS(Luma64x64)
	csub := tab.ChromaSubPS(CSP420, Luma64x64)

	allocs := testing.AllocsPerRun(20, func() {
		sub(res, 64, a, b, 64, 64)
		csub(res, 64, a, b, 64, 64)
		tab.PixelAddSS(64, 64, res, 64, ra, rb, 64, 64)
		tab.BlockCopyPS(64, 64, pix, 64, res, 64)
		tab.BlockCopySP(64, 64, res, 64, pix, 64)
	})
	if allocs != 0 {
		t.Errorf("%s: %.1f allocations per block, want 0", tab.Name(), allocs)
	}
}

func TestHighwayName(t *testing.T) {
	tab, err := NewHighway[uint16](10)
	if err != nil {
		t.Fatal(err)
	}
	target := VectorTarget()
	if target == "" {
		t.Fatal("VectorTarget() is empty")
	}
	if want := "hwy-" + target; tab.Name() != want {
		t.Errorf("Name() = %q, want %q", tab.Name(), want)
	}
}

func BenchmarkSubPS64x64(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	src0 := makeRandPels[uint8](rng, 64*64, 8)
	src1 := makeRandPels[uint8](rng, 64*64, 8)
	dst := make([]int16, 64*64)
	for _, newTab := range []func(int) (*Table[uint8], error){NewScalar[uint8], NewHighway[uint8]} {
		tab, _ := newTab(8)
		b.Run(tab.Name(), func(b *testing.B) {
			sub := tab.SubPS(Luma64x64)
			for i := 0; i < b.N; i++ {
				sub(dst, 64, src0, src1, 64, 64)
			}
		})
	}
}

func BenchmarkPixelAddSS64x64(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	a := makeRandResidual(rng, 64*64, 255)
	c := makeRandResidual(rng, 64*64, 255)
	dst := make([]int16, 64*64)
	for _, newTab := range []func(int) (*Table[uint8], error){NewScalar[uint8], NewHighway[uint8]} {
		tab, _ := newTab(8)
		b.Run(tab.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				tab.PixelAddSS(64, 64, dst, 64, a, c, 64, 64)
			}
		})
	}
}
