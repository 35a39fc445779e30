// Package shortyuv provides the residual (short-sample) YUV buffer used by a
// block-based video encoder between prediction and transform.
//
// A ShortYUV stores signed 16-bit samples for a luma plane and two chroma
// planes whose size follows the buffer's color space. It pairs with PixelYUV,
// the pixel-domain buffer holding prediction and reconstruction samples, and
// both share the same block addressing so offsets line up between them.
//
// The package supports:
//   - Residual computation: residual = source - prediction
//   - Reconstruction: clip(residual + prediction) to the sample range
//   - Partition-addressed block copies into residual or pixel buffers,
//     for all planes, luma only, or one or both chroma planes
//   - 4:0:0, 4:2:0, 4:2:2 and 4:4:4 layouts, 8-bit and high bit depth
//   - Compressed snapshots of a buffer for inspection and regression tests
//
// Per-sample arithmetic runs in a Kernels implementation chosen when the
// buffer is constructed:
//
//	k, err := shortyuv.NewKernels[uint8](8)
//	res := shortyuv.New(k)
//	err = res.Create(64, 64, shortyuv.CSP420)
//	err = res.Subtract(src, pred, 0, 64)
//
// A buffer has a single owner: methods do no locking. Distinct buffers may
// be used from different goroutines, and one Kernels value may be shared by
// all of them.
package shortyuv
