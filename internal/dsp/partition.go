package dsp

// Partition identifies a fixed block shape. Kernels that only need to work
// for a handful of shapes are specialized per Partition, the way the encoder
// indexes its prediction tables by mode.
type Partition int

// Luma partitions. Square shapes come first; the remaining entries are the
// rectangular and asymmetric shapes a 64x64 coding tree can produce.
const (
	Luma4x4 Partition = iota
	Luma8x8
	Luma16x16
	Luma32x32
	Luma64x64
	Luma8x4
	Luma4x8
	Luma16x8
	Luma8x16
	Luma32x16
	Luma16x32
	Luma64x32
	Luma32x64
	Luma16x12
	Luma12x16
	Luma16x4
	Luma4x16
	Luma32x24
	Luma24x32
	Luma32x8
	Luma8x32
	Luma64x48
	Luma48x64
	Luma64x16
	Luma16x64
	NumPartitions
)

// partDims holds {width, height} for every Partition.
var partDims = [NumPartitions][2]int{
	Luma4x4:   {4, 4},
	Luma8x8:   {8, 8},
	Luma16x16: {16, 16},
	Luma32x32: {32, 32},
	Luma64x64: {64, 64},
	Luma8x4:   {8, 4},
	Luma4x8:   {4, 8},
	Luma16x8:  {16, 8},
	Luma8x16:  {8, 16},
	Luma32x16: {32, 16},
	Luma16x32: {16, 32},
	Luma64x32: {64, 32},
	Luma32x64: {32, 64},
	Luma16x12: {16, 12},
	Luma12x16: {12, 16},
	Luma16x4:  {16, 4},
	Luma4x16:  {4, 16},
	Luma32x24: {32, 24},
	Luma24x32: {24, 32},
	Luma32x8:  {32, 8},
	Luma8x32:  {8, 32},
	Luma64x48: {64, 48},
	Luma48x64: {48, 64},
	Luma64x16: {64, 16},
	Luma16x64: {16, 64},
}

// MaxBlockSize is the largest block edge any Partition describes.
const MaxBlockSize = 64

// partLookup maps (width/4, height/4) to a Partition, or -1.
var partLookup [MaxBlockSize/4 + 1][MaxBlockSize/4 + 1]Partition

// initPartLookup fills partLookup from partDims.
func initPartLookup() {
	for i := range partLookup {
		for j := range partLookup[i] {
			partLookup[i][j] = -1
		}
	}
	for p, d := range partDims {
		partLookup[d[0]/4][d[1]/4] = Partition(p)
	}
}

// Dims returns the width and height of p.
func (p Partition) Dims() (width, height int) {
	return partDims[p][0], partDims[p][1]
}

// Valid reports whether p names a known shape.
func (p Partition) Valid() bool {
	return p >= 0 && p < NumPartitions
}

// PartitionFromSizes returns the Partition for a width x height block.
// ok is false when no kernel shape matches.
func PartitionFromSizes(width, height int) (p Partition, ok bool) {
	if width <= 0 || height <= 0 || width > MaxBlockSize || height > MaxBlockSize ||
		width&3 != 0 || height&3 != 0 {
		return -1, false
	}
	p = partLookup[width/4][height/4]
	return p, p >= 0
}
