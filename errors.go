package shortyuv

import "errors"

// Errors returned by buffer operations. Returned errors wrap one of these
// with context and can be matched with errors.Is.
var (
	// ErrAllocation indicates that a plane could not be allocated.
	// The buffer is left unallocated and Destroy is safe.
	ErrAllocation = errors.New("shortyuv: plane allocation failed")

	// ErrInvalidState indicates use of a buffer before Create or after Destroy.
	ErrInvalidState = errors.New("shortyuv: buffer not created")

	// ErrDimensionMismatch indicates a block that does not fit the addressed
	// plane, or buffers whose geometry cannot be combined.
	ErrDimensionMismatch = errors.New("shortyuv: dimension mismatch")

	// ErrInvalidColorSpace indicates an unknown color space value.
	ErrInvalidColorSpace = errors.New("shortyuv: invalid color space")

	// ErrInvalidBitDepth indicates a bit depth the pixel type cannot carry.
	ErrInvalidBitDepth = errors.New("shortyuv: invalid bit depth")

	// ErrCorruptSnapshot indicates a snapshot stream that cannot be decoded.
	ErrCorruptSnapshot = errors.New("shortyuv: corrupt snapshot")
)
