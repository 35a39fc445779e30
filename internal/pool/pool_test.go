package pool

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"unsafe"
)

func isAligned[T any](s []T) bool {
	if cap(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))%Alignment == 0
}

func TestGetPut_ExactSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"1K", 1024},
		{"4K", 4096},
		{"16K", 16384},
		{"64K", 65536},
		{"256K", 262144},
		{"1M", 1048576},
		{"4M", 4194304},
		{"500", 500},
		{"3000", 3000},
		{"64x64", 64 * 64},
		{"1080p", 1920 * 1088},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := GetInt16(tt.size)
			if err != nil {
				t.Fatalf("GetInt16(%d): %v", tt.size, err)
			}
			if len(s) != tt.size {
				t.Errorf("GetInt16(%d): len = %d, want %d", tt.size, len(s), tt.size)
			}
			if !isAligned(s) {
				t.Errorf("GetInt16(%d): plane not %d-byte aligned", tt.size, Alignment)
			}
			PutInt16(s)
		})
	}
}

func TestGet_SmallSize(t *testing.T) {
	for _, size := range []int{1, 10, 64, 128, 1023} {
		s, err := GetInt16(size)
		if err != nil {
			t.Fatalf("GetInt16(%d): %v", size, err)
		}
		if len(s) != size {
			t.Errorf("GetInt16(%d): len = %d, want %d", size, len(s), size)
		}
		// Small sizes go to bucket 0, so cap should be >= Size1K.
		if cap(s) < Size1K {
			t.Errorf("GetInt16(%d): cap = %d, want >= %d", size, cap(s), Size1K)
		}
		PutInt16(s)
	}
}

func TestGet_LargeSize(t *testing.T) {
	// Sizes above the largest class bypass the buckets but stay aligned.
	large := 2 * Size4M
	s, err := GetInt16(large)
	if err != nil {
		t.Fatalf("GetInt16(%d): %v", large, err)
	}
	if len(s) != large || cap(s) < large {
		t.Errorf("GetInt16(%d): len = %d cap = %d", large, len(s), cap(s))
	}
	if !isAligned(s) {
		t.Errorf("GetInt16(%d): plane not aligned", large)
	}
	PutInt16(s)
}

func TestGet_TooLarge(t *testing.T) {
	for _, size := range []int{-1, MaxSamples + 1} {
		if _, err := GetInt16(size); !errors.Is(err, ErrTooLarge) {
			t.Errorf("GetInt16(%d): err = %v, want ErrTooLarge", size, err)
		}
		if _, err := Aligned[uint8](size); !errors.Is(err, ErrTooLarge) {
			t.Errorf("Aligned(%d): err = %v, want ErrTooLarge", size, err)
		}
	}
}

func TestAligned(t *testing.T) {
	for _, size := range []int{0, 1, 7, 64, 4096, 100003} {
		b, err := Aligned[uint8](size)
		if err != nil {
			t.Fatalf("Aligned[uint8](%d): %v", size, err)
		}
		if len(b) != size || cap(b) != size {
			t.Errorf("Aligned[uint8](%d): len = %d cap = %d", size, len(b), cap(b))
		}
		if !isAligned(b) {
			t.Errorf("Aligned[uint8](%d): not aligned", size)
		}
		for i, v := range b {
			if v != 0 {
				t.Fatalf("Aligned[uint8](%d)[%d] = %d, want 0", size, i, v)
			}
		}
		w, err := Aligned[uint16](size)
		if err != nil {
			t.Fatalf("Aligned[uint16](%d): %v", size, err)
		}
		if len(w) != size || !isAligned(w) {
			t.Errorf("Aligned[uint16](%d): len = %d aligned = %v", size, len(w), isAligned(w))
		}
	}
}

func TestPut_SmallSlice(t *testing.T) {
	// Put of slices with cap < Size1K should be a no-op (not panic).
	PutInt16(make([]int16, 100))
	PutInt16(make([]int16, 0, 10))
	PutInt16(nil)

	s, err := GetInt16(Size1K)
	if err != nil || len(s) != Size1K {
		t.Errorf("GetInt16(%d) after small Put: len = %d err = %v", Size1K, len(s), err)
	}
	PutInt16(s)
}

func TestConcurrency(t *testing.T) {
	const goroutines = 32
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for _, size := range []int{256, 2048, 8192, 32768, 131072, 524288} {
					s, err := GetInt16(size)
					if err != nil || len(s) != size {
						t.Errorf("concurrent GetInt16(%d): len = %d err = %v", size, len(s), err)
						return
					}
					// Write to the plane to detect data races.
					for j := range s {
						s[j] = int16(j)
					}
					PutInt16(s)
				}
			}
		}()
	}

	wg.Wait()
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantBucket int
	}{
		{"1->bucket0", 1, 0},
		{"1024->bucket0", 1024, 0},
		{"1025->bucket1", 1025, 1},
		{"4096->bucket1", 4096, 1},
		{"4097->bucket2", 4097, 2},
		{"16385->bucket3", 16385, 3},
		{"65537->bucket4", 65537, 4},
		{"262145->bucket5", 262145, 5},
		{"1048577->bucket6", 1048577, 6},
		{"8388608->bucket6", 8388608, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if idx := bucketIndex(tt.size); idx != tt.wantBucket {
				t.Errorf("bucketIndex(%d) = %d, want %d", tt.size, idx, tt.wantBucket)
			}
		})
	}
}

func TestReuse(t *testing.T) {
	// sync.Pool may or may not retain objects across GC; this test
	// verifies correctness regardless of reuse.
	const size = 4096
	s, err := GetInt16(size)
	if err != nil {
		t.Fatal(err)
	}
	s[0], s[size-1] = 0x7abc, 0x7abc
	PutInt16(s)

	runtime.GC()

	for i := 0; i < 10; i++ {
		buf, err := GetInt16(size)
		if err != nil || len(buf) != size {
			t.Fatalf("cycle %d: GetInt16(%d) len = %d err = %v", i, size, len(buf), err)
		}
		if !isAligned(buf) {
			t.Errorf("cycle %d: recycled plane not aligned", i)
		}
		PutInt16(buf)
	}
}

func BenchmarkGetInt16(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{"32x32", 32 * 32},
		{"64x64", 64 * 64},
		{"1080p", 1920 * 1088},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s, _ := GetInt16(bm.size)
				PutInt16(s)
			}
		})
	}
}

func BenchmarkGetInt16Parallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s, _ := GetInt16(4096)
			PutInt16(s)
		}
	})
}
