// Package pool provides aligned sample-plane allocation and bucketed
// sync.Pool instances for residual planes. Planes are organized by size
// class to minimize waste when coding units of different sizes come and go.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Alignment is the byte alignment of the first sample of every plane,
// wide enough for a 512-bit vector load.
const Alignment = 64

// MaxSamples is the largest plane, in samples, the allocator hands out.
const MaxSamples = 1 << 28

// ErrTooLarge is returned for negative or oversized requests.
var ErrTooLarge = errors.New("pool: allocation too large")

// Size classes for bucketed pools, in samples.
const (
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
	Size4M   = 4194304
)

// bucketIndex returns the pool index for a given sample count.
func bucketIndex(size int) int {
	switch {
	case size <= Size1K:
		return 0
	case size <= Size4K:
		return 1
	case size <= Size16K:
		return 2
	case size <= Size64K:
		return 3
	case size <= Size256K:
		return 4
	case size <= Size1M:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size1K, Size4K, Size16K, Size64K, Size256K, Size1M, Size4M}

var int16Pools [7]sync.Pool

func init() {
	for i := range int16Pools {
		sz := sizes[i]
		int16Pools[i] = sync.Pool{
			New: func() any {
				s := alignedCap[int16](sz, sz)
				return &s
			},
		}
	}
}

// alignedCap allocates n samples of T whose first element sits on an
// Alignment boundary. The result has length n and capacity capacity.
func alignedCap[T any](n, capacity int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	pad := (Alignment + size - 1) / size
	buf := make([]T, capacity+pad)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	off := int((Alignment-addr%Alignment)%Alignment) / size
	return buf[off : off+n : off+capacity]
}

// Aligned returns n zeroed samples of T aligned to Alignment. It is not
// pooled; use it for buffers whose lifetime is tied to a single owner.
func Aligned[T any](n int) ([]T, error) {
	if n < 0 || n > MaxSamples {
		return nil, fmt.Errorf("%w: %d samples", ErrTooLarge, n)
	}
	return alignedCap[T](n, n), nil
}

// GetInt16 returns an aligned int16 plane of exactly length samples.
// Recycled planes are not cleared. The caller must call PutInt16 when done.
func GetInt16(length int) ([]int16, error) {
	if length < 0 || length > MaxSamples {
		return nil, fmt.Errorf("%w: %d samples", ErrTooLarge, length)
	}
	if length > Size4M {
		return alignedCap[int16](length, length), nil
	}
	idx := bucketIndex(length)
	sp := int16Pools[idx].Get().(*[]int16)
	s := *sp
	if cap(s) < length {
		return alignedCap[int16](length, length), nil
	}
	return s[:length], nil
}

// PutInt16 returns a plane to the pool. The plane must have been obtained
// from GetInt16. Planes smaller than Size1K are not pooled.
func PutInt16(s []int16) {
	c := cap(s)
	if c < Size1K {
		return
	}
	idx := bucketIndex(c)
	s = s[:c]
	int16Pools[idx].Put(&s)
}
